package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.NRGBA{R: 200, G: 100, B: 150, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func decodeDataURI(t *testing.T, uri string) image.Config {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	return cfg
}

func TestCompress_DownscalesWideImages(t *testing.T) {
	tr := NewTranscoder(0, 0)

	uri, err := tr.Compress(context.Background(), pngOf(t, 2400, 1000))
	require.NoError(t, err)

	cfg := decodeDataURI(t, uri)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestCompress_RoundsHeight(t *testing.T) {
	tr := NewTranscoder(1200, 70)

	res, err := tr.Transcode(context.Background(), pngOf(t, 1601, 901))
	require.NoError(t, err)
	assert.Equal(t, 1200, res.Width)
	// 901 * 1200 / 1601 = 675.33
	assert.Equal(t, 675, res.Height)
	assert.InDelta(t, 901.0/1601.0, float64(res.Height)/float64(res.Width), 0.001)
}

func TestCompress_KeepsSmallImages(t *testing.T) {
	tr := NewTranscoder(1200, 70)

	for _, size := range [][2]int{{800, 600}, {1200, 300}} {
		uri, err := tr.Compress(context.Background(), pngOf(t, size[0], size[1]))
		require.NoError(t, err)
		cfg := decodeDataURI(t, uri)
		assert.Equal(t, size[0], cfg.Width)
		assert.Equal(t, size[1], cfg.Height)
	}
}

func TestCompress_DecodeError(t *testing.T) {
	tr := NewTranscoder(1200, 70)

	uri, err := tr.Compress(context.Background(), strings.NewReader("definitely not an image"))
	assert.Empty(t, uri)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), "failed to decode image")
}

func TestCompress_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTranscoder(1200, 70).Compress(ctx, pngOf(t, 10, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTranscoder_Defaults(t *testing.T) {
	tr := NewTranscoder(-1, 500)
	assert.Equal(t, DefaultMaxWidth, tr.MaxWidth)
	assert.Equal(t, DefaultQuality, tr.Quality)
}
