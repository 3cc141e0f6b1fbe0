package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/imgrid/imgrid/pkg/cache"
	"github.com/imgrid/imgrid/pkg/compose"
	"github.com/imgrid/imgrid/pkg/grid"
	"github.com/imgrid/imgrid/pkg/imgio"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// composeArtifact is the cached representation of a finished run: the
// resolved layout plus the canvas as lossless PNG.
type composeArtifact struct {
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	CellWidth  int    `json:"cell_width"`
	CellHeight int    `json:"cell_height"`
	PNG        []byte `json:"png"`
}

// Execute runs the complete decode → layout → place → composite pipeline.
//
// Validation is fail-fast: every option and the grid shape are checked
// before the first file is opened. On success the returned canvas is final
// and never mutated again.
func (r *Runner) Execute(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(len(paths)); err != nil {
		return nil, err
	}
	logger := opts.Logger

	// The grid shape depends only on the image count, so an impossible
	// explicit grid is rejected before any pixel work.
	spec, err := grid.Resolve(len(paths), opts.NRows, opts.NCols)
	if err != nil {
		return nil, err
	}

	// Try the cache before decoding anything.
	cacheKey, err := r.composeKey(paths, opts)
	if err == nil && !opts.Refresh {
		if result, ok := r.cachedResult(ctx, cacheKey, len(paths)); ok {
			logger.Debug("serving composed canvas from cache", "key", cacheKey[:16])
			return result, nil
		}
	}

	result := &Result{Grid: spec}
	result.Stats.ImageCount = len(paths)

	// Stage 1: Decode
	decodeStart := time.Now()
	images, dims, err := r.decodeAll(ctx, paths, opts.Workers)
	if err != nil {
		return nil, err
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	logger.Info("decoded sources", "count", len(images), "duration", result.Stats.DecodeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	cell, err := grid.ResolveCell(opts.CellWidth, opts.CellHeight, dims)
	if err != nil {
		return nil, err
	}
	placements := grid.PlanPlacements(spec, cell, dims, opts.Mode())
	result.Cell = cell
	result.Stats.LayoutTime = time.Since(layoutStart)
	logger.Info("computed layout",
		"grid", spec, "cell", cell, "mode", opts.Mode(), "duration", result.Stats.LayoutTime)

	// Stage 3: Place
	placeStart := time.Now()
	placed := r.placeAll(ctx, images, cell, placements, opts.Workers)
	result.Stats.PlaceTime = time.Since(placeStart)
	logger.Info("placed images", "count", len(placed), "duration", result.Stats.PlaceTime)

	// Stage 4: Composite
	compositeStart := time.Now()
	result.Canvas = compose.Composite(spec, cell, opts.Background.NRGBA(), placed)
	result.Stats.CompositeTime = time.Since(compositeStart)
	result.Stats.CanvasWidth = result.Canvas.Bounds().Dx()
	result.Stats.CanvasHeight = result.Canvas.Bounds().Dy()
	logger.Info("composed canvas",
		"width", result.Stats.CanvasWidth,
		"height", result.Stats.CanvasHeight,
		"duration", result.Stats.CompositeTime)

	if cacheKey != "" {
		r.storeResult(ctx, cacheKey, result)
	}

	return result, nil
}

// Layout resolves the grid shape, cell size, and placement plan without
// decoding any pixels - only the image headers are read. This backs the
// inspect command.
func (r *Runner) Layout(ctx context.Context, paths []string, opts Options) (grid.Spec, grid.Cell, []grid.Placement, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(len(paths)); err != nil {
		return grid.Spec{}, grid.Cell{}, nil, err
	}

	spec, err := grid.Resolve(len(paths), opts.NRows, opts.NCols)
	if err != nil {
		return grid.Spec{}, grid.Cell{}, nil, err
	}

	dims := make([]grid.Size, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return grid.Spec{}, grid.Cell{}, nil, err
		}
		d, err := imgio.DecodeSize(path)
		if err != nil {
			return grid.Spec{}, grid.Cell{}, nil, err
		}
		dims[i] = d
	}

	cell, err := grid.ResolveCell(opts.CellWidth, opts.CellHeight, dims)
	if err != nil {
		return grid.Spec{}, grid.Cell{}, nil, err
	}

	return spec, cell, grid.PlanPlacements(spec, cell, dims, opts.Mode()), nil
}

// decodeAll decodes every source concurrently, preserving input order.
// Any failure aborts the whole run; a partial canvas is never produced.
func (r *Runner) decodeAll(ctx context.Context, paths []string, workers int) ([]image.Image, []grid.Size, error) {
	images := make([]image.Image, len(paths))
	dims := make([]grid.Size, len(paths))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, path := range paths {
		eg.Go(func() error {
			img, err := imgio.Decode(path)
			if err != nil {
				return err
			}
			images[i] = img
			dims[i] = imgio.Dimensions(img)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return images, dims, nil
}

// placeAll transforms every image to its planned draw size concurrently.
// Each worker writes only its own slot, so the results come back in input
// order; the compositor's row-major assignment depends on that.
func (r *Runner) placeAll(ctx context.Context, images []image.Image, cell grid.Cell, placements []grid.Placement, workers int) []compose.Placed {
	placed := make([]compose.Placed, len(images))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, img := range images {
		eg.Go(func() error {
			placed[i] = compose.Place(img, cell, placements[i])
			return nil
		})
	}
	_ = eg.Wait() // Place never fails
	return placed
}

// composeKey fingerprints the source files and options into a cache key.
func (r *Runner) composeKey(paths []string, opts Options) (string, error) {
	sourcesHash, err := cache.FingerprintFiles(paths)
	if err != nil {
		return "", err
	}
	return r.Keyer.ComposeKey(sourcesHash, opts.ComposeKeyOpts()), nil
}

// cachedResult loads and rehydrates a previously composed canvas.
func (r *Runner) cachedResult(ctx context.Context, key string, imageCount int) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}

	var artifact composeArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, false
	}
	img, err := imgio.DecodePNG(artifact.PNG)
	if err != nil {
		return nil, false
	}

	canvas := imaging.Clone(img)
	return &Result{
		Canvas: canvas,
		Grid:   grid.Spec{Rows: artifact.Rows, Cols: artifact.Cols},
		Cell:   grid.Cell{Width: artifact.CellWidth, Height: artifact.CellHeight},
		Stats: Stats{
			ImageCount:   imageCount,
			CanvasWidth:  canvas.Bounds().Dx(),
			CanvasHeight: canvas.Bounds().Dy(),
		},
		CacheInfo: CacheInfo{Hit: true},
	}, true
}

// storeResult caches a finished run. Failures are ignored: caching is an
// optimization, never a correctness requirement.
func (r *Runner) storeResult(ctx context.Context, key string, result *Result) {
	png, err := imgio.EncodePNG(result.Canvas)
	if err != nil {
		return
	}
	data, err := json.Marshal(composeArtifact{
		Rows:       result.Grid.Rows,
		Cols:       result.Grid.Cols,
		CellWidth:  result.Cell.Width,
		CellHeight: result.Cell.Height,
		PNG:        png,
	})
	if err != nil {
		return
	}
	_ = r.Cache.Set(ctx, key, data, cache.TTLCompose)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
