package web

import (
	"bytes"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

func TestNewRenderer(t *testing.T) {
	for app, pages := range map[string][]string{
		"iris":        {"index.html", "iris.html", "login.html", "register.html", "404.html", "500.html"},
		"paralympics": {"index.html", "event.html", "dashboard.html", "404.html", "500.html"},
	} {
		r, err := NewRenderer(app)
		require.NoError(t, err, app)
		for _, p := range pages {
			assert.True(t, r.Has(p), "%s/%s", app, p)
		}
		assert.False(t, r.Has("layout.html"))
	}

	_, err := NewRenderer("nope")
	require.Error(t, err)
}

func TestRender_FlashesAndEscaping(t *testing.T) {
	r, err := NewRenderer("iris")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "iris.html", echo.Map{
		"Flashes":  []string{"<b>hello</b>"},
		"IrisList": []model.Iris{{ID: 1, SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2, Species: "Iris-setosa"}},
	}, nil)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "&lt;b&gt;hello&lt;/b&gt;")
	assert.Contains(t, out, "Iris-setosa")
	assert.Contains(t, out, "Register")

	require.Error(t, r.Render(&buf, "missing.html", nil, nil))
}

func TestRender_EventNullables(t *testing.T) {
	r, err := NewRenderer("paralympics")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "event.html", echo.Map{
		"Event": model.Event{EventID: 3, Type: "Winter", Year: 1976, Location: "Örnsköldsvik", NOC: "SWE"},
	}, nil))
	assert.Contains(t, buf.String(), "1976")
}

func TestDeref(t *testing.T) {
	deref := funcs["deref"].(func(any) any)
	s, f := "x", 1.5
	assert.Equal(t, "x", deref(&s))
	assert.Equal(t, "1.5", deref(&f))
	assert.Equal(t, "", deref((*string)(nil)))
	assert.Equal(t, "", deref((*float64)(nil)))
	assert.Equal(t, 3, deref(3))
}
