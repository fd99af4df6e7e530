// Package client talks to the blog JSON API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type Client struct {
	http.Client
	Addr  string
	Token string // bearer token, set by Login
}

// Author is the author payload of an article.
type Author struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Article struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  uint      `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *Author   `json:"author,omitempty"`
	Editable  bool      `json:"editable"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Status string `json:"status"`
	Detail string `json:"error"`
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, e.Status, e.Detail)
	}

	return fmt.Sprintf("%d %s", e.Code, e.Status)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// Login exchanges credentials for a bearer token and keeps it for later calls.
func (c *Client) Login(username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"username": username, "password": password}
	if err := c.call(http.MethodPost, "/api/token", in, &out); err != nil {
		return err
	}
	c.Token = out.Token

	return nil
}

func (c *Client) ListArticles() ([]Article, error) {
	var out []Article
	err := c.call(http.MethodGet, "/api/articles", nil, &out)

	return out, err
}

func (c *Client) GetArticle(id uint) (*Article, error) {
	var out Article
	if err := c.call(http.MethodGet, articlePath(id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateArticle(title, body string) (*Article, error) {
	var out Article
	if err := c.call(http.MethodPost, "/api/articles", input(title, body), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateArticle(id uint, title, body string) (*Article, error) {
	var out Article
	if err := c.call(http.MethodPut, articlePath(id), input(title, body), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteArticle(id uint) error {
	return c.call(http.MethodDelete, articlePath(id), nil, nil)
}

func articlePath(id uint) string {
	return "/api/articles/" + strconv.FormatUint(uint64(id), 10)
}

func input(title, body string) map[string]string {
	return map[string]string{"title": title, "body": body}
}

func (c *Client) call(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.Addr+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(se)

		return se
	}
	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
