package cypherdoc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorEndToEnd(t *testing.T) {
	ex := NewExtractor(WithDefaultEndpoint("http://env:8080"))

	out, err := ex.Process(Block{
		Text:    "//| endpoint: http://h:9000\nMATCH (n) RETURN n",
		Classes: []string{"cypher"},
		Attrs:   map[string]string{},
	})
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n) RETURN n", out.Text)
	assert.Equal(t, "http://h:9000", out.Attrs["data-endpoint"])
	assert.Equal(t, "1", out.Attrs["data-block-id"])
	assert.Contains(t, out.Classes, "cypher-interactive")
}

func TestExtractor_NonHTMLTargetPassThrough(t *testing.T) {
	ex := NewExtractor(WithTarget("pdf"))

	in := Block{
		Text:    "//| endpoint: http://h:9000\nRETURN 1",
		Classes: []string{"cypher"},
		Attrs:   map[string]string{},
	}
	out, err := ex.Process(in)
	require.NoError(t, err)
	assert.Equal(t, in.Text, out.Text)
}

func TestRunnerAndRenderHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"columns":["n"],"rows":[{"n":"Ada"},{"n":null}]}`))
	}))
	defer srv.Close()

	r := NewRunner()
	res, err := r.Run(t.Context(), srv.URL, "MATCH (n) RETURN n")
	require.NoError(t, err)

	html := RenderHTML(res)
	assert.Contains(t, html, "<td>Ada</td>")
	assert.Contains(t, html, "cypher-null")
}

func TestResolveEndpointChain(t *testing.T) {
	assert.Equal(t, "http://a:1", ResolveEndpoint("http://a:1", "http://b:2"))
	assert.Equal(t, "http://b:2", ResolveEndpoint("", "http://b:2"))
	assert.Equal(t, "http://127.0.0.1:8080", ResolveEndpoint("", ""))
}

func TestRenderErrorHTML(t *testing.T) {
	out := RenderErrorHTML("timeout after 10s")
	assert.Contains(t, out, "Query error:")
	assert.Contains(t, out, "timeout after 10s")
}
