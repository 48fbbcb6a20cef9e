// Package imaging normalises uploaded company logos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxLogoSize is the largest accepted upload in bytes.
const MaxLogoSize = 2 << 20

// MaxDimension is the maximum width or height of a stored logo.
const MaxDimension = 256

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooLarge is returned for uploads above MaxLogoSize.
var ErrTooLarge = errors.New("image too large")

// Logo is a processed logo ready for storage.
type Logo struct {
	Data []byte
	MIME string
}

// ProcessLogo sniffs the format from the bytes, shrinks the image to fit
// within MaxDimension and re-encodes it in its original format. PNG stays PNG
// so transparent logos keep their alpha channel.
func ProcessLogo(data []byte) (*Logo, error) {
	if len(data) > MaxLogoSize {
		return nil, ErrTooLarge
	}

	mime := http.DetectContentType(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupportedFormat, mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrUnsupportedFormat, err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	switch mime {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", mime, err)
	}

	return &Logo{Data: buf.Bytes(), MIME: mime}, nil
}

// fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already within bounds are returned as is.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
