// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package content

import "strings"

// mimeTypes maps a lowercased file extension (without the dot) to its
// MIME type. Unknown extensions fall back to application/octet-stream.
var mimeTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"htm":  "text/html; charset=utf-8",
	"js":   "application/javascript; charset=utf-8",
	"mjs":  "application/javascript; charset=utf-8",
	"css":  "text/css; charset=utf-8",
	"json": "application/json; charset=utf-8",

	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"avif": "image/avif",

	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"eot":   "application/vnd.ms-fontobject",

	"pdf": "application/pdf",
	"xml": "application/xml; charset=utf-8",
	"txt": "text/plain; charset=utf-8",
	"md":  "text/markdown; charset=utf-8",

	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",

	"wasm": "application/wasm",
	"map":  "application/json",

	"webmanifest": "application/manifest+json",
}

// defaultMIMEType is returned for an unrecognized or missing extension.
const defaultMIMEType = "application/octet-stream"

// MIMEForPath resolves a MIME type from path's file extension.
func MIMEForPath(path string) string {
	ext := path
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		ext = strings.ToLower(path[idx+1:])
	} else {
		return defaultMIMEType
	}
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return defaultMIMEType
}
