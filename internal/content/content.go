// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content resolves a document reference (file path or URL) into
// the text or content blocks the clause extractor consumes.
//
// Plain text and Markdown are read directly. JSON and YAML files hold
// pre-parsed block lists. PDF and DOCX files go through a Converter, whose
// Markdown output is mapped to blocks by heading.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/internal/httputil"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// ErrUnsupported is returned for references whose format the loader cannot read.
var ErrUnsupported = errors.New("unsupported document format")

// Source supplies document content by reference.
type Source interface {
	Text(ctx context.Context, ref string) (string, error)
	Blocks(ctx context.Context, ref string) ([]types.ContentBlock, error)
}

// kind classifies a reference by how its content is read.
type kind int

const (
	kindUnknown kind = iota
	kindText
	kindMarkdown
	kindJSONBlocks
	kindYAMLBlocks
	kindBinary
	kindURL
)

func classify(ref string) kind {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return kindURL
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".txt":
		return kindText
	case ".md", ".markdown":
		return kindMarkdown
	case ".json":
		return kindJSONBlocks
	case ".yaml", ".yml":
		return kindYAMLBlocks
	case ".pdf", ".docx":
		return kindBinary
	default:
		return kindUnknown
	}
}

// Supported reports whether path has an extension the loader reads.
func Supported(path string) bool {
	return classify(path) != kindUnknown
}

// Loader is the default Source. Converter may be nil, in which case PDF and
// DOCX references return ErrUnsupported.
type Loader struct {
	Converter Converter
	Client    *http.Client
	Config    types.ContentConfig

	// Log receives truncation warnings; nil discards them.
	Log *zap.Logger
}

// NewLoader returns a Loader with an HTTP client configured from cfg.
func NewLoader(cfg types.ContentConfig, conv Converter) *Loader {
	return &Loader{
		Converter: conv,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Config:    cfg,
		Log:       zap.NewNop(),
	}
}

// Text returns the document as plain text. Block files are flattened with
// blank lines between blocks.
func (l *Loader) Text(ctx context.Context, ref string) (string, error) {
	switch classify(ref) {
	case kindText, kindMarkdown:
		return l.readFile(ref)
	case kindURL:
		return l.fetch(ctx, ref)
	case kindBinary:
		return l.convert(ctx, ref)
	case kindJSONBlocks, kindYAMLBlocks:
		blocks, err := l.Blocks(ctx, ref)
		if err != nil {
			return "", err
		}
		texts := make([]string, len(blocks))
		for i, b := range blocks {
			texts[i] = b.Text
		}
		return strings.Join(texts, "\n\n"), nil
	default:
		return "", fmt.Errorf("%s: %w", ref, ErrUnsupported)
	}
}

// Blocks returns the document as content blocks. Plain text and fetched
// URLs carry no heading structure and return nil blocks, leaving the caller
// to fall back to Text.
func (l *Loader) Blocks(ctx context.Context, ref string) ([]types.ContentBlock, error) {
	switch classify(ref) {
	case kindText, kindURL:
		return nil, nil
	case kindMarkdown:
		md, err := l.readFile(ref)
		if err != nil {
			return nil, err
		}
		return BlocksFromMarkdown(md), nil
	case kindBinary:
		md, err := l.convert(ctx, ref)
		if err != nil {
			return nil, err
		}
		return BlocksFromMarkdown(md), nil
	case kindJSONBlocks:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ref, err)
		}
		blocks, err := DecodeJSONBlocks(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return blocks, nil
	case kindYAMLBlocks:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ref, err)
		}
		blocks, err := DecodeYAMLBlocks(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return blocks, nil
	default:
		return nil, fmt.Errorf("%s: %w", ref, ErrUnsupported)
	}
}

func (l *Loader) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if limit := l.Config.MaxBytes; limit > 0 && int64(len(data)) > limit {
		data = trimPartialRune(data[:limit])
		l.warnTruncated(path, int64(len(data)))
	}
	return string(data), nil
}

func (l *Loader) warnTruncated(ref string, kept int64) {
	if l.Log == nil {
		return
	}
	l.Log.Warn("document truncated",
		zap.String("ref", ref),
		zap.Int64("max_bytes", l.Config.MaxBytes),
		zap.Int64("kept_bytes", kept),
	)
}

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of b by
// a byte-offset cut.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			return b
		}
	}
	return b
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	data, _, err := httputil.Fetch(ctx, client, url, httputil.FetchOptions{
		UserAgent:  l.Config.UserAgent,
		MaxRetries: l.Config.MaxRetries,
		MaxBytes:   l.Config.MaxBytes,
	})
	if err != nil {
		return "", err
	}
	if limit := l.Config.MaxBytes; limit > 0 && int64(len(data)) >= limit {
		data = trimPartialRune(data)
		l.warnTruncated(url, int64(len(data)))
	}
	return string(data), nil
}

func (l *Loader) convert(ctx context.Context, path string) (string, error) {
	if l.Converter == nil {
		return "", fmt.Errorf("%s: no converter configured: %w", path, ErrUnsupported)
	}
	return l.Converter.Convert(ctx, path)
}
