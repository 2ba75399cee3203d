// Package uriutil converts between file paths and the file:// URIs used by
// LSP clients.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI returns the file:// URI of path after making it absolute.
// Segments are percent-encoded. Windows drive paths gain a leading slash
// (file:///C:/proj) and UNC paths keep their server as the URI host.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	u := url.URL{Scheme: "file"}
	slashed := filepath.ToSlash(abs)
	if runtime.GOOS == "windows" && strings.HasPrefix(slashed, "//") {
		host, rest, _ := strings.Cut(strings.TrimPrefix(slashed, "//"), "/")
		u.Host = host
		u.Path = "/" + rest
		return u.String()
	}
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u.Path = slashed
	return u.String()
}

// URIToPath returns the file system path of a file:// URI. Anything that
// does not parse as a file URI is treated as a path with an optional
// file:// prefix.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return filepath.FromSlash(trimDriveSlash(strings.TrimPrefix(uri, "file://")))
	}

	if u.Host != "" && u.Host != "localhost" {
		if runtime.GOOS == "windows" {
			return `\\` + u.Host + filepath.FromSlash(u.Path)
		}
		return u.Host + u.Path
	}
	return filepath.FromSlash(trimDriveSlash(u.Path))
}

// trimDriveSlash turns /C:/proj into C:/proj.
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}
