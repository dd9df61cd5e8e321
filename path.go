package adbfs

import (
	"path"
	"strings"
)

// CleanPath normalises a device path: forward-slashes, no trailing slash,
// always starts with "/".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." || p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Clean("/" + p)
	}
	return p
}

// isUnder reports whether p equals dir or lies below it.
func isUnder(p, dir string) bool {
	if dir == "/" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
