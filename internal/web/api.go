package web

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/articlerequest"
	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

func (h *Handler) apiListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Articles.List(r.Context(), identity.FromContext(r.Context()))
	h.Metrics.Operation(r.Context(), "list", err)
	if err != nil {
		h.apiError(w, r, err)

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(list, h.names(r.Context()))); err != nil {
		h.renderFailed(w, r, err)
	}
}

// apiCreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (h *Handler) apiCreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.invalidRequest(w, r, err)

		return
	}

	a, err := h.Articles.Create(r.Context(), identity.FromContext(r.Context()), data.Input())
	h.Metrics.Operation(r.Context(), "create", err)
	if err != nil {
		h.apiError(w, r, err)

		return
	}

	render.Status(r, http.StatusCreated)
	h.renderArticle(w, r, a)
}

// apiGetArticle returns the Article ArticleCtx put on the context.
func (h *Handler) apiGetArticle(w http.ResponseWriter, r *http.Request) {
	h.Metrics.Operation(r.Context(), "detail", nil)
	h.renderArticle(w, r, articleFromContext(r.Context()))
}

// apiUpdateArticle overwrites title and body of an existing Article.
func (h *Handler) apiUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := articleFromContext(r.Context()).ID

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.invalidRequest(w, r, err)

		return
	}

	a, err := h.Articles.Update(r.Context(), identity.FromContext(r.Context()), id, data.Input())
	h.Metrics.Operation(r.Context(), "update", err)
	if err != nil {
		h.apiError(w, r, err)

		return
	}

	h.renderArticle(w, r, a)
}

// apiDeleteArticle removes an existing Article and returns it one last time.
func (h *Handler) apiDeleteArticle(w http.ResponseWriter, r *http.Request) {
	a := articleFromContext(r.Context())

	err := h.Articles.Delete(r.Context(), identity.FromContext(r.Context()), a.ID)
	h.Metrics.Operation(r.Context(), "delete", err)
	if err != nil {
		h.apiError(w, r, err)

		return
	}

	h.renderArticle(w, r, a)
}

func (h *Handler) renderArticle(w http.ResponseWriter, r *http.Request, a *model.Article) {
	if err := render.Render(w, r, articleresponse.NewArticleResponse(a, h.names(r.Context()))); err != nil {
		h.renderFailed(w, r, err)
	}
}

func (h *Handler) invalidRequest(w http.ResponseWriter, r *http.Request, err error) {
	if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
		h.logError(r, err)
	}
}

func (h *Handler) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
		h.logError(r, err)
	}
}
