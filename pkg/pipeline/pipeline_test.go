package pipeline

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/imgrid/imgrid/pkg/cache"
	"github.com/imgrid/imgrid/pkg/errors"
	"github.com/imgrid/imgrid/pkg/grid"
)

// writeImages writes n solid-color PNGs into dir and returns their paths.
func writeImages(t *testing.T, dir string, sizes []grid.Size) []string {
	t.Helper()
	paths := make([]string, len(sizes))
	for i, s := range sizes {
		paths[i] = filepath.Join(dir, "img"+string(rune('a'+i))+".png")
		img := imaging.New(s.Width, s.Height, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		if err := imaging.Save(img, paths[i]); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		imageCount int
		wantCode   errors.Code
	}{
		{"defaults pass", Options{}, 3, ""},
		{"empty input", Options{}, 0, errors.ErrCodeEmptyInput},
		{"negative rows", Options{NRows: -1}, 3, errors.ErrCodeInvalidGrid},
		{"negative cols", Options{NCols: -2}, 3, errors.ErrCodeInvalidGrid},
		{"negative cell width", Options{CellWidth: -10}, 3, errors.ErrCodeInvalidCellSize},
		{"background out of range", Options{Background: RGB{R: 300}}, 3, errors.ErrCodeInvalidBackground},
		{"background negative", Options{Background: RGB{B: -1}}, 3, errors.ErrCodeInvalidBackground},
		{"explicit grid ok", Options{NRows: 2, NCols: 2}, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults(tt.imageCount)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults() error = %v, want nil", err)
				}
				if tt.opts.Workers <= 0 {
					t.Errorf("Workers = %d, want default > 0", tt.opts.Workers)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestOptionsMode(t *testing.T) {
	tests := []struct {
		name   string
		resize bool
		fill   bool
		want   grid.SizingMode
	}{
		{"neither", false, false, grid.SizeOriginal},
		{"resize only", true, false, grid.SizeFit},
		{"resize and fill", true, true, grid.SizeCover},
		{"fill alone implies cover", false, true, grid.SizeCover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{Resize: tt.resize, Fill: tt.fill}
			if got := o.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecuteBasic(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{
		{Width: 30, Height: 20},
		{Width: 20, Height: 40},
		{Width: 50, Height: 10},
	})

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// 3 images auto-resolve to a 2x2 grid; cell adopts per-axis maxima.
	if result.Grid != (grid.Spec{Rows: 2, Cols: 2}) {
		t.Errorf("Grid = %+v, want 2x2", result.Grid)
	}
	if result.Cell != (grid.Cell{Width: 50, Height: 40}) {
		t.Errorf("Cell = %+v, want 50x40", result.Cell)
	}
	if result.Stats.CanvasWidth != 100 || result.Stats.CanvasHeight != 80 {
		t.Errorf("canvas = %dx%d, want 100x80",
			result.Stats.CanvasWidth, result.Stats.CanvasHeight)
	}
	if result.CacheInfo.Hit {
		t.Error("CacheInfo.Hit = true on first run with NullCache")
	}
}

func TestExecuteMissingFile(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), []string{filepath.Join(t.TempDir(), "gone.png")}, Options{})
	if err == nil {
		t.Fatal("Execute() expected error for missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestExecuteInvalidGrid(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{
		{Width: 10, Height: 10}, {Width: 10, Height: 10}, {Width: 10, Height: 10},
		{Width: 10, Height: 10}, {Width: 10, Height: 10},
	})

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), paths, Options{NRows: 2, NCols: 2})
	if err == nil {
		t.Fatal("Execute() expected error for 5 images in a 2x2 grid")
	}
	if !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGrid)
	}
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{
		{Width: 16, Height: 16},
		{Width: 16, Height: 16},
	})

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.Hit {
		t.Fatal("first run reported a cache hit")
	}

	second, err := r.Execute(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("Execute() second run error = %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Fatal("second run did not hit the cache")
	}
	if second.Grid != first.Grid || second.Cell != first.Cell {
		t.Errorf("cached layout %+v/%+v differs from fresh %+v/%+v",
			second.Grid, second.Cell, first.Grid, first.Cell)
	}

	// PNG is lossless, so the cached canvas is pixel-identical.
	fb, sb := first.Canvas.Bounds(), second.Canvas.Bounds()
	if fb != sb {
		t.Fatalf("cached canvas bounds %v, want %v", sb, fb)
	}
	for y := fb.Min.Y; y < fb.Max.Y; y++ {
		for x := fb.Min.X; x < fb.Max.X; x++ {
			if first.Canvas.NRGBAAt(x, y) != second.Canvas.NRGBAAt(x, y) {
				t.Fatalf("cached canvas differs at (%d, %d)", x, y)
			}
		}
	}
}

func TestExecuteRefreshSkipsCache(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{{Width: 8, Height: 8}})

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), paths, Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	result, err := r.Execute(context.Background(), paths, Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute() refresh error = %v", err)
	}
	if result.CacheInfo.Hit {
		t.Error("Refresh run reported a cache hit")
	}
}

func TestExecuteDifferentOptionsMissCache(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{{Width: 40, Height: 20}})

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), paths, Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	result, err := r.Execute(context.Background(), paths, Options{Resize: true, CellWidth: 30, CellHeight: 30})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.CacheInfo.Hit {
		t.Error("run with different options reported a cache hit")
	}
	if result.Cell != (grid.Cell{Width: 30, Height: 30}) {
		t.Errorf("Cell = %+v, want 30x30", result.Cell)
	}
}

func TestLayoutDoesNotDecodePixels(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{
		{Width: 100, Height: 50},
		{Width: 60, Height: 80},
	})

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	spec, cell, placements, err := r.Layout(context.Background(), paths, Options{Resize: true})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if spec != (grid.Spec{Rows: 1, Cols: 2}) {
		t.Errorf("spec = %+v, want 1x2", spec)
	}
	if cell != (grid.Cell{Width: 100, Height: 80}) {
		t.Errorf("cell = %+v, want 100x80", cell)
	}
	if len(placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(placements))
	}
	for i, p := range placements {
		if p.Mode != grid.SizeFit {
			t.Errorf("placement %d mode = %v, want fit", i, p.Mode)
		}
	}
}

func TestExecuteSerialAndParallelAgree(t *testing.T) {
	dir := t.TempDir()
	paths := writeImages(t, dir, []grid.Size{
		{Width: 33, Height: 21}, {Width: 14, Height: 55},
		{Width: 48, Height: 48}, {Width: 9, Height: 9},
	})

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	serial, err := r.Execute(context.Background(), paths, Options{Resize: true, Workers: 1})
	if err != nil {
		t.Fatalf("Execute() serial error = %v", err)
	}
	parallel, err := r.Execute(context.Background(), paths, Options{Resize: true, Workers: 4})
	if err != nil {
		t.Fatalf("Execute() parallel error = %v", err)
	}

	b := serial.Canvas.Bounds()
	if parallel.Canvas.Bounds() != b {
		t.Fatalf("bounds differ: %v vs %v", parallel.Canvas.Bounds(), b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if serial.Canvas.NRGBAAt(x, y) != parallel.Canvas.NRGBAAt(x, y) {
				t.Fatalf("worker count changed output at (%d, %d)", x, y)
			}
		}
	}
}
