package imgio

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/imgrid/imgrid/pkg/errors"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 95

// Save encodes img to path; the format is chosen by file extension
// (png, jpg/jpeg, gif, tif/tiff, bmp). quality applies to JPEG only.
func Save(img image.Image, path string, quality int) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "save %s", path)
	}
	return nil
}

// EncodePNG encodes img to PNG bytes. PNG is lossless, so a canvas survives
// an encode/decode round trip pixel-identical; the result cache relies on
// this.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "encode png")
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes PNG bytes back into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode cached png")
	}
	return img, nil
}
