package web

import (
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/articlerequest"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

type articleView struct {
	*model.Article
	Author   string
	Editable bool
}

type listPage struct {
	Who      identity.Identity
	Articles []articleView
}

type detailPage struct {
	Who     identity.Identity
	Article articleView
}

type formPage struct {
	Who    identity.Identity
	Action string
	Title  string
	Body   string
	Error  string
}

type errorPage struct {
	Who     identity.Identity
	Status  int
	Message string
}

func (h *Handler) view(r *http.Request, a *model.Article, names func(uint) string) articleView {
	return articleView{
		Article:  a,
		Author:   names(a.AuthorID),
		Editable: article.IsOwner(a, identity.FromContext(r.Context())),
	}
}

func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	who := identity.FromContext(r.Context())
	list, err := h.Articles.List(r.Context(), who)
	h.Metrics.Operation(r.Context(), "list", err)
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	names := h.names(r.Context())
	page := listPage{Who: who, Articles: make([]articleView, 0, len(list))}
	for _, a := range list {
		page.Articles = append(page.Articles, h.view(r, a, names))
	}
	h.render(w, r, http.StatusOK, "article_list.html", page)
}

func (h *Handler) newArticle(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "article_new.html", formPage{
		Who:    identity.FromContext(r.Context()),
		Action: articlesPath,
	})
}

// createArticle attributes the new article to the logged in user and
// redirects to it.
func (h *Handler) createArticle(w http.ResponseWriter, r *http.Request) {
	who := identity.FromContext(r.Context())
	in, err := articlerequest.FromForm(r)
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	a, err := h.Articles.Create(r.Context(), who, in)
	h.Metrics.Operation(r.Context(), "create", err)
	if errors.Is(err, article.ErrInvalid) {
		h.render(w, r, http.StatusUnprocessableEntity, "article_new.html", formPage{
			Who:    who,
			Action: articlesPath,
			Title:  in.Title,
			Body:   in.Body,
			Error:  err.Error(),
		})

		return
	}
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	http.Redirect(w, r, articleURL(a.ID), http.StatusSeeOther)
}

// getArticle renders the article ArticleCtx loaded.
func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	a := articleFromContext(r.Context())
	h.Metrics.Operation(r.Context(), "detail", nil)

	h.render(w, r, http.StatusOK, "article_detail.html", detailPage{
		Who:     identity.FromContext(r.Context()),
		Article: h.view(r, a, h.names(r.Context())),
	})
}

func (h *Handler) editArticle(w http.ResponseWriter, r *http.Request) {
	a := articleFromContext(r.Context())

	h.render(w, r, http.StatusOK, "article_edit.html", formPage{
		Who:    identity.FromContext(r.Context()),
		Action: articleURL(a.ID) + "/edit",
		Title:  a.Title,
		Body:   a.Body,
	})
}

func (h *Handler) updateArticle(w http.ResponseWriter, r *http.Request) {
	who := identity.FromContext(r.Context())
	id := articleFromContext(r.Context()).ID
	in, err := articlerequest.FromForm(r)
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	_, err = h.Articles.Update(r.Context(), who, id, in)
	h.Metrics.Operation(r.Context(), "update", err)
	if errors.Is(err, article.ErrInvalid) {
		h.render(w, r, http.StatusUnprocessableEntity, "article_edit.html", formPage{
			Who:    who,
			Action: articleURL(id) + "/edit",
			Title:  in.Title,
			Body:   in.Body,
			Error:  err.Error(),
		})

		return
	}
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	http.Redirect(w, r, articleURL(id), http.StatusSeeOther)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "article_delete.html", detailPage{
		Who:     identity.FromContext(r.Context()),
		Article: h.view(r, articleFromContext(r.Context()), h.names(r.Context())),
	})
}

func (h *Handler) deleteArticle(w http.ResponseWriter, r *http.Request) {
	who := identity.FromContext(r.Context())
	err := h.Articles.Delete(r.Context(), who, articleFromContext(r.Context()).ID)
	h.Metrics.Operation(r.Context(), "delete", err)
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	http.Redirect(w, r, articlesPath, http.StatusSeeOther)
}
