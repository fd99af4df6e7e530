package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/userpayload"
)

// AuthorNames resolves author ids to usernames. Unknown ids map to "".
type AuthorNames func(id uint) string

// ArticleResponse is the response payload for the Article data model.
//
// In the ArticleResponse object, first a Render() is called on itself,
// then the next field, and so on, all the way down the tree.
type ArticleResponse struct {
	*model.Article

	Author *userpayload.UserPayload `json:"author,omitempty"`

	// Editable tells the client whether the requester may update or delete.
	Editable bool `json:"editable"`
}

func NewArticleListResponse(articles []*model.Article, names AuthorNames) []render.Renderer {
	list := []render.Renderer{}
	for _, article := range articles {
		list = append(list, NewArticleResponse(article, names))
	}

	return list
}

func NewArticleResponse(article *model.Article, names AuthorNames) *ArticleResponse {
	resp := &ArticleResponse{Article: article}

	var name string
	if names != nil {
		name = names(article.AuthorID)
	}
	resp.Author = userpayload.NewUserPayloadResponse(article.AuthorID, name)

	return resp
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	// Pre-processing before a response is marshalled and sent across the wire
	rd.Editable = article.IsOwner(rd.Article, identity.FromContext(r.Context()))

	return nil
}
