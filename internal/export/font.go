package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// maxFontBytes bounds the size of a downloaded font.
const maxFontBytes = 16 << 20

// ErrNotTrueType is returned for font data without a TrueType or OpenType
// signature.
var ErrNotTrueType = errors.New("not a TrueType font")

var fontSignatures = [][]byte{
	{0x00, 0x01, 0x00, 0x00},
	[]byte("true"),
	[]byte("OTTO"),
}

// CheckTrueType reports ErrNotTrueType unless data starts with a known sfnt
// version tag.
func CheckTrueType(data []byte) error {
	for _, sig := range fontSignatures {
		if bytes.HasPrefix(data, sig) {
			return nil
		}
	}
	return ErrNotTrueType
}

// FontLoader supplies the bytes of a UTF-8 TrueType font.
type FontLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

// HTTPFontLoader downloads a font once and keeps it in memory. Failed
// downloads are not cached, so the next export retries.
type HTTPFontLoader struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	font []byte
}

// NewHTTPFontLoader creates a loader for url.
func NewHTTPFontLoader(url string) *HTTPFontLoader {
	return &HTTPFontLoader{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Load returns the cached font or fetches it.
func (l *HTTPFontLoader) Load(ctx context.Context) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.font != nil {
		return l.font, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build font request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch font: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes))
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch font: empty body")
	}
	if err := CheckTrueType(data); err != nil {
		return nil, fmt.Errorf("fetch font %s: %w", l.url, err)
	}

	l.font = data
	return data, nil
}
