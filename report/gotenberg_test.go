package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderHTMLPostsMultipartForm(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "index.html", header.Filename)

		require.Equal(t, paperWidthA4, r.FormValue("paperWidth"))
		require.Equal(t, paperHeightA4, r.FormValue("paperHeight"))

		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	// Trailing slash must not produce a double-slash request path.
	client := NewClient(srv.URL+"/", 5*time.Second)
	pdf, err := client.RenderHTML(context.Background(), "<html><body>Invoice</body></html>")
	require.NoError(t, err)
	require.Equal(t, "/forms/chromium/convert/html", gotPath)
	require.Equal(t, []byte("%PDF-1.7"), pdf)
}

func TestRenderHTMLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.RenderHTML(context.Background(), "<html></html>")
	require.ErrorContains(t, err, "status 500")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	require.NoError(t, client.Ping(context.Background()))
}
