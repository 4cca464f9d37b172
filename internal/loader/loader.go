package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"go.uber.org/zap"
)

var (
	// ErrEmptyInput is returned when no source identifier was supplied.
	ErrEmptyInput = errors.New("no source provided")
	// ErrSourceUnavailable covers missing files, unreachable URLs and read failures.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDecodeFailure is returned when every candidate encoding failed.
	ErrDecodeFailure = errors.New("could not decode source")
)

// Options controls source loading.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used unless the source ends in .tsv.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Parse controls number parsing and missing-value tokens.
	Parse table.ParseOptions
	// HTTPTimeout bounds URL fetches; 0 means 30s.
	HTTPTimeout time.Duration
	// MaxBytes caps downloaded bodies; 0 means 256 MiB.
	MaxBytes int64
}

// Result is a loaded table plus how it was decoded.
type Result struct {
	Table    *table.Table
	Source   string
	Encoding string
}

// Loader turns a path or URL into a Table.
type Loader struct {
	opt        Options
	httpClient *http.Client
	logger     *zap.Logger
}

// New returns a Loader. A nil logger disables logging.
func New(opt Options, logger *zap.Logger) *Loader {
	if opt.HTTPTimeout <= 0 {
		opt.HTTPTimeout = 30 * time.Second
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 256 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		opt:        opt,
		httpClient: &http.Client{Timeout: opt.HTTPTimeout},
		logger:     logger.Named("loader"),
	}
}

// IsURL reports whether source looks like an http(s) URL.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads source and returns the parsed table.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptyInput
	}
	var (
		data []byte
		name string
		err  error
	)
	remote := IsURL(source)
	if remote {
		data, err = l.fetch(ctx, source)
		name = path.Base(strings.SplitN(source, "?", 2)[0])
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, source, err)
		}
		name = filepath.Base(source)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("source read", zap.String("source", source), zap.Int("bytes", len(data)))

	if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		t, err := readXLSX(name, data, l.opt)
		if err != nil {
			return nil, err
		}
		return &Result{Table: t, Source: source, Encoding: "xlsx"}, nil
	}

	encodings := fallbackEncodings
	if remote {
		encodings = fallbackEncodings[:1]
	}
	delim := l.opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	var lastErr error
	for _, enc := range encodings {
		text, err := enc.decode(data)
		if err != nil {
			l.logger.Debug("decode failed", zap.String("encoding", enc.name), zap.Error(err))
			lastErr = err
			continue
		}
		t, err := parseCSV(name, text, delim, l.opt.Parse)
		if err != nil {
			l.logger.Debug("parse failed", zap.String("encoding", enc.name), zap.Error(err))
			lastErr = err
			continue
		}
		return &Result{Table: t, Source: source, Encoding: enc.name}, nil
	}
	return nil, fmt.Errorf("%w: tried %s: %v", ErrDecodeFailure, encodingNames(encodings), lastErr)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %s: %s", ErrSourceUnavailable, url, resp.Status, strings.TrimSpace(string(b)))
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, l.opt.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}
	if n > l.opt.MaxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrSourceUnavailable, l.opt.MaxBytes)
	}
	return buf.Bytes(), nil
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
