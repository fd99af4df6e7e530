package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/blog/internal/article"
)

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":              nil,
		"unauthenticated": article.ErrUnauthenticated,
		"not_found":       fmt.Errorf("get: %w", article.ErrNotFound),
		"forbidden":       article.ErrForbidden,
		"invalid":         fmt.Errorf("%w: title is required", article.ErrInvalid),
		"error":           errors.New("boom"),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Errorf("Outcome(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.Operation(context.Background(), "list", nil)

	h := rec.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("status %d", w.Code)
	}
}

func TestExporter(t *testing.T) {
	rec, exporter, err := New("blog-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := chi.NewRouter()
	r.Use(rec.Middleware)
	r.Get("/articles/{articleID}", func(w http.ResponseWriter, r *http.Request) {
		rec.Operation(r.Context(), "detail", article.ErrForbidden)
		w.WriteHeader(http.StatusForbidden)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/articles/1", nil))

	w := httptest.NewRecorder()
	exporter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("scrape status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"articles_operations", "http_server_completed_count"} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output lacks %s", want)
		}
	}
}
