package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 120, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func newImageServer(t *testing.T) *httptest.Server {
	pngData, jpegData, gifData := encodePNG(t), encodeJPEG(t), encodeGIF(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	})
	mux.HandleFunc("/photos/b.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(jpegData)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write(gifData)
	})
	mux.HandleFunc("/sniff", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(gifData)
	})
	mux.HandleFunc("/mislabeled.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(jpegData)
	})
	mux.HandleFunc("/page.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>not found</body></html>"))
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Remote(t *testing.T) {
	srv := newImageServer(t)
	f := NewFetcher(DefaultFetchConfig(), zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		path     string
		ok       bool
		encoding Encoding
	}{
		{"/a.png", true, EncodingPNG},
		{"/photos/b.jpg", true, EncodingJPEG},
		{"/c", true, EncodingGIF},
		{"/sniff", true, EncodingGIF},
		{"/mislabeled.png", true, EncodingJPEG},
		{"/page.png", false, ""},
		{"/missing.png", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			img, ok := f.Acquire(ctx, srv.URL+tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, img)
				assert.Equal(t, tt.encoding, img.Encoding)
				assert.Equal(t, 40, img.Width)
				assert.Equal(t, 30, img.Height)
			} else {
				assert.Nil(t, img)
			}
		})
	}
}

func TestFetcher_RemoteTooLarge(t *testing.T) {
	srv := newImageServer(t)
	cfg := DefaultFetchConfig()
	cfg.MaxBytes = 16
	f := NewFetcher(cfg, zap.NewNop())

	_, ok := f.Acquire(context.Background(), srv.URL+"/a.png")
	assert.False(t, ok)
}

func TestFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	f := NewFetcher(DefaultFetchConfig(), zap.NewNop())
	_, ok := f.Acquire(context.Background(), addr+"/gone.png")
	assert.False(t, ok)
}

func TestFetcher_Inline(t *testing.T) {
	f := NewFetcher(DefaultFetchConfig(), nil)
	ctx := context.Background()

	pngRef := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t))
	img, ok := f.Acquire(ctx, pngRef)
	require.True(t, ok)
	assert.Equal(t, EncodingPNG, img.Encoding)

	jpegRef := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encodeJPEG(t))
	img, ok = f.Acquire(ctx, jpegRef)
	require.True(t, ok)
	assert.Equal(t, EncodingJPEG, img.Encoding)

	gifRef := "data:image/gif;base64," + base64.StdEncoding.EncodeToString(encodeGIF(t))
	img, ok = f.Acquire(ctx, gifRef)
	require.True(t, ok)
	assert.Equal(t, EncodingGIF, img.Encoding)

	// content wins over a wrong declaration
	mislabeled := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeJPEG(t))
	img, ok = f.Acquire(ctx, mislabeled)
	require.True(t, ok)
	assert.Equal(t, EncodingJPEG, img.Encoding)

	undeclared := "data:;base64," + base64.StdEncoding.EncodeToString(encodePNG(t))
	img, ok = f.Acquire(ctx, undeclared)
	require.True(t, ok)
	assert.Equal(t, EncodingPNG, img.Encoding)
}

func TestFetcher_Unavailable(t *testing.T) {
	f := NewFetcher(DefaultFetchConfig(), zap.NewNop())
	ctx := context.Background()

	for _, ref := range []string{
		"",
		"   ",
		"data:image/png;base64,!!!notbase64!!!",
		"data:image/png,rawbytes",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
		"ftp://example.com/a.png",
		"not a url at all",
	} {
		img, ok := f.Acquire(ctx, ref)
		assert.False(t, ok, "ref %q", ref)
		assert.Nil(t, img)
	}
}

func TestIsInline(t *testing.T) {
	assert.True(t, IsInline(" DATA:image/png;base64,AAAA"))
	assert.False(t, IsInline("https://example.com/a.png"))
}
