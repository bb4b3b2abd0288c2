package common

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizePath reduces a URL to the normalized path used as the metadata
// store key: scheme, host, query and fragment are dropped, the trailing slash
// is stripped except for the root path. Bare paths ("/tours/reef") are
// accepted as-is.
func NormalizePath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty url")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("unparseable url %q: %w", raw, err)
	}
	if parsed.Host == "" && !strings.HasPrefix(parsed.Path, "/") {
		return "", fmt.Errorf("url %q has no host and no absolute path", raw)
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return path, nil
}
