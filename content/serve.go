// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package content

import (
	"context"
	"strings"
	"sync"

	"github.com/zhtp/web4/hashmerkle"
)

// Mode is a domain's content-serving policy.
type Mode uint8

const (
	// ModeSPA falls back to the index document for navigation routes on
	// a miss; this is the default.
	ModeSPA Mode = iota
	// ModeStatic returns ErrContentNotFound for any miss, with no
	// fallback.
	ModeStatic
)

// Capability bounds what a domain may serve.
type Capability uint8

const (
	// CapabilitySPAServe serves SPA-routed content; the default.
	CapabilitySPAServe Capability = iota
	// CapabilityHTTPServe serves full HTML/JS/CSS/images without
	// restriction.
	CapabilityHTTPServe
	// CapabilityDownloadOnly refuses to serve HTML, for pure data/binary
	// domains.
	CapabilityDownloadOnly
)

// DomainConfig holds a domain's effective serving configuration.
type DomainConfig struct {
	Mode         Mode
	IndexDoc     string
	Capability   Capability
}

// DefaultIndexDocument is used when a DomainConfig doesn't set its own.
const DefaultIndexDocument = "index.html"

// Registry resolves a domain's configuration and fetches its content by
// normalized path — the minimal in-process interface Serve needs,
// letting the DHT-backed or blockchain-registered domain store sit
// behind it.
type Registry interface {
	// Config returns domain's effective configuration, or false if the
	// domain is not registered.
	Config(ctx context.Context, domain string) (DomainConfig, bool)
	// Content fetches the bytes stored at path within domain, or false
	// if there is no content there.
	Content(ctx context.Context, domain, path string) ([]byte, bool)
}

// Result is the outcome of a successful Serve call.
type Result struct {
	Content      []byte
	MIMEType     string
	CacheControl string
	ETag         string
	IsFallback   bool
}

// Service is the content-service facade of spec.md §4.7, wired over a
// Registry.
type Service struct {
	mu       sync.RWMutex
	registry Registry
}

// NewService constructs a Service over registry.
func NewService(registry Registry) *Service {
	return &Service{registry: registry}
}

// Serve resolves domain/path to content. Path normalization runs first,
// before any registry lookup, so a path-traversal attempt never reaches
// the registry at all.
func (s *Service) Serve(ctx context.Context, domain, path string) (Result, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()

	cfg, ok := registry.Config(ctx, domain)
	if !ok {
		return Result{}, ErrDomainNotFound
	}
	if cfg.IndexDoc == "" {
		cfg.IndexDoc = DefaultIndexDocument
	}

	effective := effectivePath(normalized, cfg.IndexDoc)
	if cfg.Capability == CapabilityDownloadOnly {
		if strings.HasPrefix(MIMEForPath(effective), "text/html") {
			return Result{}, ErrHTMLServingDisabled
		}
	}

	isIndex := strings.HasSuffix(effective, cfg.IndexDoc)

	if data, found := registry.Content(ctx, domain, effective); found {
		mime := MIMEForPath(effective)
		return Result{
			Content:      data,
			MIMEType:     mime,
			CacheControl: CacheControlFor(effective, mime, isIndex),
			ETag:         etag(data),
		}, nil
	}

	return s.handleNotFound(ctx, registry, domain, normalized, cfg)
}

// effectivePath maps a normalized path to the concrete document it
// fetches: root resolves to indexDoc, a path ending in "/" has indexDoc
// appended, and any other path is fetched as is. NormalizePath never
// leaves a trailing "/" except on root, so a directory path such as
// "/docs" is fetched as is.
func effectivePath(normalized, indexDoc string) string {
	switch {
	case normalized == "/":
		return "/" + indexDoc
	case strings.HasSuffix(normalized, "/"):
		return normalized + indexDoc
	default:
		return normalized
	}
}

// handleNotFound applies SPA-fallback policy for a miss: static domains
// 404 unconditionally; SPA domains fall back to the index document, but
// only for navigation routes (no file extension) — a missing asset still
// 404s.
func (s *Service) handleNotFound(ctx context.Context, registry Registry, domain, normalized string, cfg DomainConfig) (Result, error) {
	if cfg.Mode == ModeStatic {
		return Result{}, ErrContentNotFound
	}

	if !isNavigationRoute(normalized) {
		return Result{}, ErrContentNotFound
	}

	indexPath := "/" + cfg.IndexDoc
	data, found := registry.Content(ctx, domain, indexPath)
	if !found {
		return Result{}, ErrContentNotFound
	}

	mime := MIMEForPath(indexPath)
	return Result{
		Content:      data,
		MIMEType:     mime,
		CacheControl: CacheControlFor(indexPath, mime, true),
		ETag:         etag(data),
		IsFallback:   true,
	}, nil
}

// etag computes a content-addressed ETag from data's keyed hash.
func etag(data []byte) string {
	return `"` + hashmerkle.H(data).String() + `"`
}
