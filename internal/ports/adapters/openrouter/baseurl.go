package openrouter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://openrouter.ai"

var defaultAllowedHosts = []string{"openrouter.ai", "api.openrouter.ai"}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// ValidateBaseURL accepts only absolute https endpoints whose host is in
// allowedHosts (the OpenRouter hosts when the list is empty).
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	baseURL = normalizeBaseURL(baseURL)

	u, err := url.Parse(baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid OPENROUTER_BASE_URL")
	}
	reject := func(reason string) error {
		return errors.Errorf("invalid OPENROUTER_BASE_URL %q: %s", baseURL, reason)
	}
	switch {
	case !u.IsAbs() || u.Hostname() == "":
		return reject("absolute URL with host is required")
	case u.User != nil:
		return reject("userinfo is not allowed")
	case u.RawQuery != "" || u.Fragment != "":
		return reject("query and fragment are not allowed")
	case !strings.EqualFold(u.Scheme, "https"):
		return reject("https is required")
	}

	host := strings.ToLower(u.Hostname())
	if !hostAllowed(host, allowedHosts) {
		return reject("host " + strconv.Quote(host) + " is not in OPENROUTER_ALLOWED_HOSTS")
	}
	return nil
}

func hostAllowed(host string, allowedHosts []string) bool {
	allowed := normalizeAllowedHosts(allowedHosts)
	for _, h := range allowed {
		if h == host {
			return true
		}
	}
	return false
}

// normalizeAllowedHosts strips schemes, ports and slashes. An empty
// result falls back to the default hosts.
func normalizeAllowedHosts(allowedHosts []string) []string {
	out := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if i := strings.IndexByte(v, ':'); i >= 0 {
			v = v[:i]
		}
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultAllowedHosts
	}
	return out
}
