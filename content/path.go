// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package content implements the facade the blockchain-registered Web4
// domain layer serves pages and assets through (spec.md §4.7): path
// normalization (security-critical, and always run before any lookup),
// hashed-asset detection, cache-control policy, and a Serve facade over
// a minimal domain-content registry.
package content

import (
	"net/url"
	"strings"
)

// NormalizePath rejects path traversal and collapses a request path to
// its canonical form:
//  1. empty -> "/"
//  2. collapse "//"
//  3. drop "." segments
//  4. ".." pops one segment; popping past root is a security violation
//  5. any other segment that contains ".." once percent-decoded (such as
//     "%2e%2e" or "a..b") is rejected; only a literal ".." pops
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", ErrPathTraversal
			}
			segments = segments[:len(segments)-1]
		default:
			decoded, err := url.PathUnescape(seg)
			if err != nil {
				decoded = seg
			}
			if strings.Contains(decoded, "..") {
				return "", ErrPathTraversal
			}
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(segments, "/"), nil
}

// hasFileExtension reports whether path's final segment carries a file
// extension (a '.' that is neither the first nor the last character).
func hasFileExtension(path string) bool {
	filename := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		filename = path[idx+1:]
	}
	dot := strings.LastIndex(filename, ".")
	return dot > 0 && dot < len(filename)-1
}

// isNavigationRoute reports whether path looks like a client-side route
// rather than a static asset (no file extension).
func isNavigationRoute(path string) bool {
	return !hasFileExtension(path)
}

// minHashSegmentLen is the minimum alphanumeric length a hash segment in
// a hashed-asset filename must have.
const minHashSegmentLen = 8

// IsHashedAsset reports whether path's filename matches a bundler-style
// hashed-asset pattern: chunk-HHHH…/vendor-HHHH… or name.HHHH…H.ext, with
// the hash segment at least minHashSegmentLen alphanumeric characters.
func IsHashedAsset(path string) bool {
	filename := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		filename = path[idx+1:]
	}
	if filename == "" {
		filename = path
	}

	for _, prefix := range []string{"chunk-", "vendor-"} {
		if strings.HasPrefix(filename, prefix) {
			rest := filename[len(prefix):]
			hashPart := rest
			if dot := strings.Index(rest, "."); dot >= 0 {
				hashPart = rest[:dot]
			}
			if len(hashPart) >= minHashSegmentLen && isAlphanumeric(hashPart) {
				return true
			}
		}
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	for _, part := range parts[1 : len(parts)-1] {
		if len(part) >= minHashSegmentLen && isAlphanumeric(part) {
			return true
		}
	}
	return false
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
