// client_test.go
//go:build !integration
// +build !integration

package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginKeepsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "t0k"})
		case "/api/articles":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]Article{{ID: 1, Title: "Hello"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}
	if err := c.Login("alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	list, err := c.ListArticles()
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if gotAuth != "Bearer t0k" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if len(list) != 1 || list[0].Title != "Hello" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":"Forbidden."}`))
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}
	err := c.DeleteArticle(7)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden || se.Status != "Forbidden." {
		t.Fatalf("expected 403 status error, got %v", err)
	}
}
