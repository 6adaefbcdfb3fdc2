// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/luxfi/log"
	nolog "github.com/zhtp/web4/log"

	"github.com/zhtp/web4/content"
)

// Handler is the gateway's HTTP entry point: a thin router in front of
// content.Service, with TLS/HSTS, rate limiting, body limits, and request
// timeouts applied uniformly. It carries no domain-registry write path of
// its own: the /domains/* routes answer ErrNotImplemented, and
// /statistics reports only the configured TLS mode.
type Handler struct {
	cfg     Config
	content *content.Service
	limiter *ipRateLimiter
	log     log.Logger
	mux     *http.ServeMux
}

// NewHandler builds a Handler serving contentService under cfg. A nil
// logger falls back to a no-op logger.
func NewHandler(contentService *content.Service, cfg Config, logger log.Logger) *Handler {
	if logger == nil {
		logger = nolog.NewNoOpLogger()
	}
	h := &Handler{
		cfg:     cfg,
		content: contentService,
		limiter: newIPRateLimiter(cfg.RateLimitWindow, cfg.RateLimitPerMinute, cfg.RateLimitMaxEntries),
		log:     logger,
	}
	h.mux = h.routes()
	return h
}

func (h *Handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/web4/content/{domain}/{path...}", h.handleContent)
	mux.HandleFunc("POST /api/v1/web4/content/blob", h.handleBlobOrManifest)
	mux.HandleFunc("GET /api/v1/web4/content/blob", h.handleBlobOrManifest)
	mux.HandleFunc("POST /api/v1/web4/content/manifest", h.handleBlobOrManifest)
	mux.HandleFunc("GET /api/v1/web4/content/manifest", h.handleBlobOrManifest)
	for _, action := range []string{"register", "transfer", "release", "resolve", "update", "status", "history"} {
		mux.HandleFunc("/api/v1/web4/domains/"+action, h.handleDomainAction)
	}
	mux.HandleFunc("GET /api/v1/web4/statistics", h.handleStatistics)
	return mux
}

// ServeHTTP applies the gateway's standard middleware chain and dispatches
// to the route table.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handler http.Handler = http.HandlerFunc(h.dispatch)
	handler = withBodyLimit(h.cfg, handler)
	handler = withRateLimit(h.limiter, handler)
	handler = withCORS(h.cfg, handler)
	handler = withHSTS(h.cfg, handler)
	handler.ServeHTTP(w, r)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	timeout := h.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	h.mux.ServeHTTP(w, r.WithContext(ctx))
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	path := r.PathValue("path")
	if domain == "" {
		writeError(w, http.StatusBadRequest, ErrMissingDomain)
		return
	}
	if path == "" {
		path = "/"
	} else if path[0] != '/' {
		path = "/" + path
	}

	res, err := h.content.Serve(r.Context(), domain, path)
	if err != nil {
		h.log.Warn("content serve rejected", "domain", domain, "path", path, "error", err)
		writeError(w, statusForContentError(err), err)
		return
	}

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Cache-Control", res.CacheControl)
	if res.ETag != "" {
		w.Header().Set("ETag", res.ETag)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

// handleBlobOrManifest answers every blob and manifest route, upload
// (POST) and fetch (GET) alike, with ErrNotImplemented: no storage layer
// is behind these routes in this process, and the request body is not
// inspected.
func (h *Handler) handleBlobOrManifest(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, ErrNotImplemented)
}

func (h *Handler) handleDomainAction(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, ErrNotImplemented)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"tls_mode": h.cfg.TLSMode,
	})
}
