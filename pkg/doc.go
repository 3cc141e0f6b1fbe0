// Package pkg provides the core libraries for imgrid image composition.
//
// # Overview
//
// Imgrid combines a set of images into one grid canvas. The pkg directory is
// organized into a few focused areas:
//
//  1. [grid] - Pure layout math (grid shape, cell size, placement plan)
//  2. [compose] - Pixel work (scaling/cropping and clipped pasting)
//  3. [imgio] - Decoding, encoding, and preview of image files
//  4. [pipeline] - Orchestration (decode → layout → place → composite)
//  5. [cache] - Content-addressed cache for composed canvases
//
// # Architecture
//
// The typical data flow through imgrid:
//
//	Image files
//	     ↓
//	[imgio] package (decode pixels and dimensions)
//	     ↓
//	[grid] package (grid shape + cell size + placements)
//	     ↓
//	[compose] package (place + composite onto the canvas)
//	     ↓
//	PNG/JPEG/GIF/TIFF/BMP output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, paths, pipeline.Options{Resize: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = imgio.Save(result.Canvas, "grid.png", 0)
//
// Supporting packages: [errors] (coded errors), [buildinfo] (version info).
package pkg
