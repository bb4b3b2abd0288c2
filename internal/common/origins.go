package common

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentAliasPrefix is the conventional subdomain the content system is also
// reachable on (e.g. https://example.com -> https://cms.example.com).
const ContentAliasPrefix = "cms."

// ResolveOrigins derives the ordered, de-duplicated list of base origins to
// try for the content system: the configured origin first, then the
// conventional subdomain alias when it is distinct. Alias derivation is
// best-effort; a malformed origin is passed through alone.
func ResolveOrigins(origin string) []string {
	origins := []string{origin}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return origins
	}

	host := parsed.Host
	if strings.HasPrefix(host, ContentAliasPrefix) {
		return origins
	}

	alias := fmt.Sprintf("%s://%s%s", parsed.Scheme, ContentAliasPrefix, host)
	if alias != origin {
		origins = append(origins, alias)
	}

	return origins
}
