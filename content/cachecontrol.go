// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package content

import "strings"

const (
	cacheControlNoStore       = "no-store"
	cacheControlImmutable     = "public, max-age=31536000, immutable"
	cacheControlShortLived    = "public, max-age=3600"
)

// CacheControlFor decides the Cache-Control header value for a served
// path: index/HTML always no-store; hashed assets immutable; everything
// else a short, moderate cache.
func CacheControlFor(path, mimeType string, isIndex bool) string {
	if isIndex || strings.HasPrefix(mimeType, "text/html") {
		return cacheControlNoStore
	}
	if IsHashedAsset(path) {
		return cacheControlImmutable
	}
	return cacheControlShortLived
}
