// Package media downsizes and re-encodes owner-uploaded images so they fit
// comfortably inside a single content document.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 70
)

// DecodeError reports input that could not be read as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Result is an encoded JPEG and its final dimensions.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// DataURI returns the result as a self-contained data URI.
func (r *Result) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Transcoder resizes images to a maximum width and re-encodes them as JPEG.
type Transcoder struct {
	MaxWidth int
	Quality  int // 1-100
}

// NewTranscoder returns a transcoder; non-positive arguments take the defaults.
func NewTranscoder(maxWidth, quality int) *Transcoder {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Transcoder{MaxWidth: maxWidth, Quality: quality}
}

// Transcode decodes r, scales it down to MaxWidth when wider (height keeps the
// aspect ratio, rounded to the nearest pixel) and encodes it as JPEG.
func (t *Transcoder) Transcode(ctx context.Context, r io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	b := img.Bounds()
	if b.Dx() > t.MaxWidth {
		// Height 0 lets imaging keep the ratio.
		img = imaging.Resize(img, t.MaxWidth, 0, imaging.Lanczos)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	out := img.Bounds()
	return &Result{Data: buf.Bytes(), Width: out.Dx(), Height: out.Dy()}, nil
}

// Compress transcodes r and returns the JPEG as a data URI.
func (t *Transcoder) Compress(ctx context.Context, r io.Reader) (string, error) {
	res, err := t.Transcode(ctx, r)
	if err != nil {
		return "", err
	}
	return res.DataURI(), nil
}
