// client_integration_test.go
//go:build integration
// +build integration

package client

import (
	"errors"
	"net/http"
	"os"
	"testing"
)

var c = Client{
	Addr:   "http://localhost:3333",
	Client: http.Client{},
}

func TestPing(t *testing.T) {
	if s, err := c.Ping(); err != nil || s != "pong" {
		t.Fail()
	}
}

// TestArticleLifecycle needs a running server and a user created with
// `blog adduser`, passed as BLOG_TEST_USER and BLOG_TEST_PASSWORD.
func TestArticleLifecycle(t *testing.T) {
	name, pass := os.Getenv("BLOG_TEST_USER"), os.Getenv("BLOG_TEST_PASSWORD")
	if name == "" {
		t.Skip("BLOG_TEST_USER not set")
	}
	if err := c.Login(name, pass); err != nil {
		t.Fatalf("Login: %v", err)
	}

	a, err := c.CreateArticle("Hello", "World")
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if a.Author == nil || a.Author.Name != name || !a.Editable {
		t.Fatalf("unexpected author: %+v", a)
	}

	if a, err = c.UpdateArticle(a.ID, "Hi", "x"); err != nil || a.Title != "Hi" {
		t.Fatalf("UpdateArticle: %v %+v", err, a)
	}
	if err := c.DeleteArticle(a.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}

	_, err = c.GetArticle(a.ID)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}
