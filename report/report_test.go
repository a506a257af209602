package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLPostsIndexFile(t *testing.T) {
	var gotPath, gotFile, gotPaper string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotPaper = r.FormValue("paperWidth")
		file, header, err := r.FormFile("files")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		gotFile = header.Filename + ":" + string(raw)
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/", time.Second)
	pdf, err := client.RenderHTML(context.Background(), []byte("<h1>INVOICE</h1>"))

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
	assert.Equal(t, "/forms/chromium/convert/html", gotPath)
	assert.Equal(t, "index.html:<h1>INVOICE</h1>", gotFile)
	assert.Equal(t, "8.27", gotPaper)
}

func TestRenderHTMLReportsUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, time.Second).RenderHTML(context.Background(), []byte("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPingRoute(t *testing.T) {
	var unhealthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unhealthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	router := chi.NewRouter()
	router.Route("/report", NewHandler(NewClient(srv.URL, time.Second), nil).MountRoutes)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/report/ping", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())

	unhealthy.Store(true)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/report/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestWritePDFHeaders(t *testing.T) {
	res := httptest.NewRecorder()
	WritePDF(res, "INV-1.pdf", []byte("%PDF"))

	assert.Equal(t, "application/pdf", res.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="INV-1.pdf"`, res.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", res.Header().Get("Content-Length"))
}
