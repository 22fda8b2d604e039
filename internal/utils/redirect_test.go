package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const host = "http://localhost:5000/"

func TestIsSafeURL_Relative(t *testing.T) {
	for _, p := range []string{"/", "/x", "/iris?page=2", "iris", "../login", "/display_event/3#top"} {
		assert.True(t, IsSafeURL(p, host), p)
	}
}

func TestIsSafeURL_SameHostAbsolute(t *testing.T) {
	assert.True(t, IsSafeURL("http://localhost:5000/iris", host))
	assert.True(t, IsSafeURL("https://localhost:5000/iris", host))
}

func TestIsSafeURL_RejectsOtherSchemes(t *testing.T) {
	for _, target := range []string{
		"javascript:alert(1)",
		"ftp://localhost:5000/file",
		"data:text/html,hi",
		"mailto:someone@example.com",
		"file:///etc/passwd",
	} {
		assert.False(t, IsSafeURL(target, host), target)
	}
}

func TestIsSafeURL_RejectsOtherHosts(t *testing.T) {
	for _, target := range []string{
		"http://evil.example.com/",
		"//evil.example.com/login",
		"https://localhost:5001/",
		"http://localhost/",
		"http://localhost:5000.evil.com/",
	} {
		assert.False(t, IsSafeURL(target, host), target)
	}
}

func TestIsSafeURL_EmptyAndMalformed(t *testing.T) {
	assert.False(t, IsSafeURL("", host))
	assert.False(t, IsSafeURL("http://[::1", host))
	assert.False(t, IsSafeURL("/x", "::not a url"))
}

func TestSafeRedirect_Order(t *testing.T) {
	assert.Equal(t, "/iris", SafeRedirect("/iris", "/other", host, "/"))
	assert.Equal(t, "http://localhost:5000/back", SafeRedirect("http://evil.com/", "http://localhost:5000/back", host, "/"))
	assert.Equal(t, "/", SafeRedirect("", "http://evil.com/", host, "/"))
	assert.Equal(t, "/home", SafeRedirect("javascript:x", "", host, "/home"))
	assert.Equal(t, "/", SafeRedirect("", "", host, ""))
}

func TestSafeRedirect_NeverUnsafe(t *testing.T) {
	candidates := []string{"", "/a", "http://evil.com", "javascript:x", "//evil.com", "https://localhost:5000/b"}
	for _, c := range candidates {
		for _, r := range candidates {
			got := SafeRedirect(c, r, host, "/")
			assert.True(t, IsSafeURL(got, host), "candidate=%q referrer=%q got=%q", c, r, got)
		}
	}
}

func TestHostURL(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Host = "example.test:8080"
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "http://example.test:8080/", HostURL(c))
}

func TestIsSafeURL_RejectsLooseBrowserForms(t *testing.T) {
	for _, target := range []string{
		" //evil.example",
		"/\\evil.example",
		"\\\\evil.example",
		"/x ",
		"\t/x",
		"/\x00x",
		"http:evil.example",
		"http:///evil.example",
		"https:\\\\evil.example",
	} {
		assert.False(t, IsSafeURL(target, host), "%q", target)
	}
	assert.True(t, IsSafeURL("/a\\b", host))
}

func TestCheckRedirect_Sentinel(t *testing.T) {
	assert.NoError(t, CheckRedirect("/iris", host))
	assert.ErrorIs(t, CheckRedirect("//evil.example", host), ErrUnsafeRedirect)
	assert.ErrorIs(t, CheckRedirect("", host), ErrUnsafeRedirect)
}
