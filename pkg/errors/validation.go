package errors

import (
	"path/filepath"
	"strings"
)

// ValidateBackground validates an RGB background triple.
// Each channel must be an integer in [0, 255].
func ValidateBackground(r, g, b int) error {
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return New(ErrCodeInvalidBackground, "background channel %d out of range [0, 255]", c)
		}
	}
	return nil
}

// ValidateCellSize validates an explicit cell size.
// A value of 0 means "unset" and is allowed; negative values and a set
// dimension of 0 width/height after resolution are rejected by the caller.
func ValidateCellSize(width, height int) error {
	if width < 0 {
		return New(ErrCodeInvalidCellSize, "cell width must be a positive integer, got %d", width)
	}
	if height < 0 {
		return New(ErrCodeInvalidCellSize, "cell height must be a positive integer, got %d", height)
	}
	return nil
}

// supportedOutputExts is the set of output file extensions the encoder accepts.
var supportedOutputExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// ValidateOutputPath validates an output file path for encoding.
// The extension must map to a supported image format.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return New(ErrCodeInvalidFormat, "output path %q has no file extension", path)
	}
	if !supportedOutputExts[ext] {
		return New(ErrCodeInvalidFormat, "unsupported output format %q (supported: png, jpg, gif, tif, bmp)", ext)
	}
	return nil
}
