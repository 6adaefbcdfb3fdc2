// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	configs map[string]DomainConfig
	files   map[string][]byte // "domain:/path" -> bytes
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{configs: map[string]DomainConfig{}, files: map[string][]byte{}}
}

func (r *fakeRegistry) withDomain(domain string, cfg DomainConfig) *fakeRegistry {
	r.configs[domain] = cfg
	return r
}

func (r *fakeRegistry) withFile(domain, path string, data []byte) *fakeRegistry {
	r.files[domain+":"+path] = data
	return r
}

func (r *fakeRegistry) Config(ctx context.Context, domain string) (DomainConfig, bool) {
	cfg, ok := r.configs[domain]
	return cfg, ok
}

func (r *fakeRegistry) Content(ctx context.Context, domain, path string) ([]byte, bool) {
	data, ok := r.files[domain+":"+path]
	return data, ok
}

func TestServeUnknownDomain(t *testing.T) {
	s := NewService(newFakeRegistry())
	_, err := s.Serve(context.Background(), "missing.web4", "/")
	require.ErrorIs(t, err, ErrDomainNotFound)
}

func TestServeRootResolvesToIndex(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("site.web4", DomainConfig{Mode: ModeSPA, IndexDoc: "index.html"}).
		withFile("site.web4", "/index.html", []byte("<html>home</html>"))
	s := NewService(reg)

	res, err := s.Serve(context.Background(), "site.web4", "/")
	require.NoError(t, err)
	require.Equal(t, []byte("<html>home</html>"), res.Content)
	require.Equal(t, "no-store", res.CacheControl)
	require.False(t, res.IsFallback)
}

func TestServeSPAFallbackForNavigationRoute(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("site.web4", DomainConfig{Mode: ModeSPA, IndexDoc: "index.html"}).
		withFile("site.web4", "/index.html", []byte("<html>spa</html>"))
	s := NewService(reg)

	res, err := s.Serve(context.Background(), "site.web4", "/about")
	require.NoError(t, err)
	require.True(t, res.IsFallback)
	require.Equal(t, []byte("<html>spa</html>"), res.Content)
}

func TestServeSPADoesNotFallbackForMissingAsset(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("site.web4", DomainConfig{Mode: ModeSPA, IndexDoc: "index.html"}).
		withFile("site.web4", "/index.html", []byte("<html>spa</html>"))
	s := NewService(reg)

	_, err := s.Serve(context.Background(), "site.web4", "/main.js")
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestServeStaticModeNeverFallsBack(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("site.web4", DomainConfig{Mode: ModeStatic, IndexDoc: "index.html"}).
		withFile("site.web4", "/index.html", []byte("<html>static</html>"))
	s := NewService(reg)

	_, err := s.Serve(context.Background(), "site.web4", "/about")
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestServeDownloadOnlyRefusesHTML(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("data.web4", DomainConfig{Mode: ModeStatic, IndexDoc: "index.html", Capability: CapabilityDownloadOnly}).
		withFile("data.web4", "/index.html", []byte("<html>nope</html>"))
	s := NewService(reg)

	_, err := s.Serve(context.Background(), "data.web4", "/")
	require.ErrorIs(t, err, ErrHTMLServingDisabled)
}

func TestServeDownloadOnlyAllowsNonHTML(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("data.web4", DomainConfig{Mode: ModeStatic, IndexDoc: "index.html", Capability: CapabilityDownloadOnly}).
		withFile("data.web4", "/data.json", []byte(`{"ok":true}`))
	s := NewService(reg)

	res, err := s.Serve(context.Background(), "data.web4", "/data.json")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"ok":true}`), res.Content)
}

func TestServeRejectsPathTraversalBeforeLookup(t *testing.T) {
	reg := newFakeRegistry().withDomain("site.web4", DomainConfig{Mode: ModeSPA, IndexDoc: "index.html"})
	s := NewService(reg)

	_, err := s.Serve(context.Background(), "site.web4", "/../../etc/passwd")
	require.ErrorIs(t, err, ErrPathTraversal)
}

func TestServeHashedAssetGetsImmutableCacheControl(t *testing.T) {
	reg := newFakeRegistry().
		withDomain("site.web4", DomainConfig{Mode: ModeSPA, IndexDoc: "index.html"}).
		withFile("site.web4", "/main.a1b2c3d4.js", []byte("console.log(1)"))
	s := NewService(reg)

	res, err := s.Serve(context.Background(), "site.web4", "/main.a1b2c3d4.js")
	require.NoError(t, err)
	require.Equal(t, "public, max-age=31536000, immutable", res.CacheControl)
	require.NotEmpty(t, res.ETag)
}
