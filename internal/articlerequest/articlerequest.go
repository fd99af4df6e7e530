package articlerequest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/article"
)

// ArticleRequest is the request payload for creating and updating articles.
//
// Only title and body are read. Id and author are accepted in the JSON so
// clients may echo a response back, and are dropped in Bind: the id comes
// from the URL and the author from the requesting identity.
type ArticleRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`

	ProtectedID       uint `json:"id,omitempty"`       // ignored
	ProtectedAuthorID uint `json:"authorId,omitempty"` // ignored
}

// Bind on ArticleRequest runs after the JSON has been decoded.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Title == nil {
		return errors.New("missing required article fields")
	}

	a.ProtectedID = 0
	a.ProtectedAuthorID = 0

	return nil
}

// Input returns the fields the article service accepts.
func (a *ArticleRequest) Input() article.Input {
	in := article.Input{Title: *a.Title}
	if a.Body != nil {
		in.Body = *a.Body
	}

	return in
}

// FromForm reads an HTML form post. Any author or id form field is ignored.
func FromForm(r *http.Request) (article.Input, error) {
	if err := r.ParseForm(); err != nil {
		return article.Input{}, fmt.Errorf("%w: %v", article.ErrInvalid, err)
	}

	return article.Input{
		Title: r.PostForm.Get("title"),
		Body:  r.PostForm.Get("body"),
	}, nil
}
