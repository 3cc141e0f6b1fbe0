// Package imgio wraps image decoding, encoding, and preview behind small
// functions so the layout and compositing packages never touch the
// filesystem. Decode failures abort a combine run before any canvas exists;
// no partial output is ever produced.
package imgio

import (
	stderrors "errors"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"

	"github.com/imgrid/imgrid/pkg/errors"
	"github.com/imgrid/imgrid/pkg/grid"
)

// Decode reads and decodes the image at path.
// EXIF orientation is applied during decode so dimensions reflect what the
// viewer sees. Missing files map to FILE_NOT_FOUND, everything else to
// DECODE_ERROR.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image file %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
	}
	return img, nil
}

// DecodeSize reads only the image header at path and returns its pixel
// dimensions. EXIF orientation is not applied; callers that need oriented
// dimensions must use Decode.
func DecodeSize(path string) (grid.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return grid.Size{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "image file %s does not exist", path)
		}
		return grid.Size{}, errors.Wrap(errors.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return grid.Size{}, errors.Wrap(errors.ErrCodeDecode, err, "read header of %s", path)
	}
	return grid.Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Dimensions returns the pixel size of img.
func Dimensions(img image.Image) grid.Size {
	b := img.Bounds()
	return grid.Size{Width: b.Dx(), Height: b.Dy()}
}
