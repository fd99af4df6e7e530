package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

// ErrorFunc answers a request that failed with err. Pages redirect or render
// HTML, the API renders JSON.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

type articleKey struct{}

// RequireAuthenticated stops anonymous requests with article.ErrUnauthenticated.
func RequireAuthenticated(fail ErrorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := identity.FromContext(r.Context())
			if err := article.RequireAuthenticated(who, nil); err != nil {
				fail(w, r, err)

				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and answer not found.
func ArticleCtx(svc *article.Service, fail ErrorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseUint(chi.URLParam(r, "articleID"), 10, 0)
			if err != nil || id == 0 {
				fail(w, r, article.ErrNotFound)

				return
			}
			a, err := svc.Detail(r.Context(), identity.FromContext(r.Context()), uint(id))
			if err != nil {
				fail(w, r, err)

				return
			}

			ctx := context.WithValue(r.Context(), articleKey{}, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner lets only the author of the loaded article through. It must be
// mounted below ArticleCtx.
func RequireOwner(fail ErrorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := identity.FromContext(r.Context())
			if err := article.OwnerChain.Check(who, articleFromContext(r.Context())); err != nil {
				fail(w, r, err)

				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// articleFromContext returns the article ArticleCtx loaded, or nil.
func articleFromContext(ctx context.Context) *model.Article {
	a, _ := ctx.Value(articleKey{}).(*model.Article)

	return a
}
