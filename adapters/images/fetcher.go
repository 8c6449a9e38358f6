package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Encoding is an image format the workbook writer can embed
type Encoding string

const (
	EncodingPNG  Encoding = "png"
	EncodingJPEG Encoding = "jpeg"
	EncodingGIF  Encoding = "gif"
)

// Extension returns the file extension excelize expects for the encoding
func (e Encoding) Extension() string { return "." + string(e) }

// Image is an acquired picture ready to embed
type Image struct {
	Data     []byte
	Encoding Encoding
	Width    int
	Height   int
}

// FetchConfig bounds remote acquisition
type FetchConfig struct {
	Timeout   time.Duration `json:"timeout"`
	MaxBytes  int64         `json:"max_bytes"`
	UserAgent string        `json:"user_agent"`
}

// DefaultFetchConfig returns conservative limits for export-time fetching
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:   10 * time.Second,
		MaxBytes:  10 << 20,
		UserAgent: "samplewms-export/1.0",
	}
}

// Fetcher resolves image references into bytes. It never returns errors:
// anything that goes wrong makes the image unavailable.
type Fetcher struct {
	config     FetchConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher with its own HTTP client
func NewFetcher(config FetchConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Named("ImageFetcher"),
	}
}

// Acquire returns the image behind ref, or false when it is unavailable
func (f *Fetcher) Acquire(ctx context.Context, ref string) (*Image, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}

	var (
		img *Image
		err error
	)
	if IsInline(ref) {
		img, err = f.decodeInline(ref)
	} else {
		img, err = f.fetchRemote(ctx, ref)
	}
	if err != nil {
		f.logger.Warn("image unavailable", zap.String("ref", shorten(ref)), zap.Error(err))
		return nil, false
	}
	return img, true
}

// IsInline reports whether ref is a data URI rather than a location
func IsInline(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}

func (f *Fetcher) decodeInline(ref string) (*Image, error) {
	comma := strings.Index(ref, ",")
	if comma < 0 {
		return nil, fmt.Errorf("data URI has no payload")
	}
	params := strings.Split(ref[len("data:"):comma], ";")
	declared := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}

	payload := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, ref[comma+1:])
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64 payload: %w", err)
		}
	}

	encoding, ok := encodingFromMIME(declared)
	if !ok {
		encoding = EncodingPNG
	}
	return f.finish(data, encoding)
}

func (f *Fetcher) fetchRemote(ctx context.Context, ref string) (*Image, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}
	req.Header.Set("Accept", "image/png,image/jpeg,image/gif,image/*;q=0.8")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	limit := f.config.MaxBytes
	if limit <= 0 {
		limit = DefaultFetchConfig().MaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}

	encoding, ok := encodingFromMIME(resp.Header.Get("Content-Type"))
	if !ok {
		encoding, ok = encodingFromExtension(u.Path)
	}
	if !ok {
		encoding = EncodingPNG
	}

	f.logger.Debug("image fetched",
		zap.String("ref", shorten(ref)),
		zap.Int("bytes", len(data)),
		zap.String("declared", string(encoding)),
		zap.Duration("elapsed", time.Since(start)))
	return f.finish(data, encoding)
}

// finish rejects payloads that are not decodable pictures. The sniffed
// content type overrides the declared encoding when the two disagree.
func (f *Fetcher) finish(data []byte, declared Encoding) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("payload is %s, not an image", detected.String())
	}
	encoding := declared
	if sniffed, ok := encodingFromMIME(detected.String()); ok && sniffed != declared {
		f.logger.Debug("declared image type does not match content",
			zap.String("declared", string(declared)),
			zap.String("detected", detected.String()))
		encoding = sniffed
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	return &Image{Data: data, Encoding: encoding, Width: cfg.Width, Height: cfg.Height}, nil
}

func encodingFromMIME(contentType string) (Encoding, bool) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return EncodingJPEG, true
	case strings.Contains(ct, "gif"):
		return EncodingGIF, true
	case strings.Contains(ct, "png"):
		return EncodingPNG, true
	}
	return "", false
}

func encodingFromExtension(p string) (Encoding, bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return EncodingJPEG, true
	case ".gif":
		return EncodingGIF, true
	case ".png":
		return EncodingPNG, true
	}
	return "", false
}

// shorten keeps data URIs out of log lines
func shorten(ref string) string {
	if len(ref) <= 96 {
		return ref
	}
	return ref[:96] + "..."
}
