package utils

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrUnsafeRedirect marks a client supplied redirect target that points
// outside the application.  Handlers answer it with a bare 400.
var ErrUnsafeRedirect = errors.New("unsafe redirect target")

// HostURL returns the base URL of the current request, e.g.
// "http://localhost:5000/".
func HostURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + "/"
}

// CheckRedirect returns ErrUnsafeRedirect unless redirecting to target keeps
// the client on the host described by hostURL.  target is resolved against
// hostURL first, so a relative path inherits the current scheme and host.
// The resolved URL must use http or https and carry exactly the same host
// and port.
//
// Browsers read a Location header loosely: they drop surrounding whitespace
// and control characters and treat '\' like '/'.  Targets with whitespace at
// either end or any control character are unsafe, and backslashes are read
// as slashes before resolving.
func CheckRedirect(target, hostURL string) error {
	if target == "" || strings.TrimSpace(target) != target {
		return ErrUnsafeRedirect
	}
	if strings.IndexFunc(target, unicode.IsControl) >= 0 {
		return ErrUnsafeRedirect
	}
	base, err := url.Parse(hostURL)
	if err != nil {
		return ErrUnsafeRedirect
	}
	ref, err := url.Parse(strings.ReplaceAll(target, `\`, "/"))
	if err != nil {
		return ErrUnsafeRedirect
	}
	// "http:evil.example" and "http:///evil.example" carry a scheme but no
	// host; browsers still leave the site for them
	if ref.Scheme != "" && ref.Host == "" {
		return ErrUnsafeRedirect
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ErrUnsafeRedirect
	}
	if resolved.Host != base.Host {
		return ErrUnsafeRedirect
	}
	return nil
}

// IsSafeURL reports whether CheckRedirect accepts target.
func IsSafeURL(target, hostURL string) bool {
	return CheckRedirect(target, hostURL) == nil
}

// SafeRedirect picks the first safe target of candidate and referrer,
// falling back to def ("/" when empty).  It never returns an unsafe URL.
func SafeRedirect(candidate, referrer, hostURL, def string) string {
	if IsSafeURL(candidate, hostURL) {
		return candidate
	}
	if IsSafeURL(referrer, hostURL) {
		return referrer
	}
	if def == "" {
		return "/"
	}
	return def
}
