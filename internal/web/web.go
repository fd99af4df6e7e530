// Package web serves articles as HTML pages and as a JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/metrics"
	"github.com/SergeyParamoshkin/blog/internal/user"
)

const (
	loginPath    = "/login"
	articlesPath = "/articles"
)

// Handler holds the collaborators of every route. It keeps no per-request
// state.
type Handler struct {
	Articles *article.Service
	Users    *user.Service
	Sessions *identity.Sessions
	Tokens   *identity.Tokens
	Log      *zap.SugaredLogger
	Metrics  *metrics.Recorder

	views *Views
}

func New(articles *article.Service, users *user.Service, sessions *identity.Sessions,
	tokens *identity.Tokens, log *zap.SugaredLogger, rec *metrics.Recorder) (*Handler, error) {
	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	return &Handler{
		Articles: articles,
		Users:    users,
		Sessions: sessions,
		Tokens:   tokens,
		Log:      log,
		Metrics:  rec,
		views:    views,
	}, nil
}

// Routes mounts the pages and the API on r. The identity middleware must run
// before r, and the session manager's LoadAndSave around it.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, articlesPath, http.StatusSeeOther)
	})

	r.Get(loginPath, h.loginForm)
	r.Post(loginPath, h.login)
	r.Post("/logout", h.logout)

	pageGate := h.counted(h.pageError)
	apiGate := h.counted(h.apiError)

	// HTML routes for the "articles" resource
	r.Route(articlesPath, func(r chi.Router) {
		r.Use(RequireAuthenticated(pageGate))
		r.Get("/", h.listArticles)   // GET /articles
		r.Post("/", h.createArticle) // POST /articles
		r.Get("/new", h.newArticle)  // GET /articles/new

		r.Route("/{articleID}", func(r chi.Router) {
			r.Use(ArticleCtx(h.Articles, pageGate)) // Load the *Article on the request context
			r.Get("/", h.getArticle)                // GET /articles/123

			r.Group(func(r chi.Router) {
				r.Use(RequireOwner(pageGate))
				r.Get("/edit", h.editArticle)      // GET /articles/123/edit
				r.Post("/edit", h.updateArticle)   // POST /articles/123/edit
				r.Get("/delete", h.confirmDelete)  // GET /articles/123/delete
				r.Post("/delete", h.deleteArticle) // POST /articles/123/delete
			})
		})
	})

	// RESTy routes for the same resource
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/token", h.issueToken) // POST /api/token

		r.Route("/articles", func(r chi.Router) {
			r.Use(RequireAuthenticated(apiGate))
			r.Get("/", h.apiListArticles)   // GET /api/articles
			r.Post("/", h.apiCreateArticle) // POST /api/articles

			r.Route("/{articleID}", func(r chi.Router) {
				r.Use(ArticleCtx(h.Articles, apiGate))
				r.Get("/", h.apiGetArticle) // GET /api/articles/123

				r.Group(func(r chi.Router) {
					r.Use(RequireOwner(apiGate))
					r.Put("/", h.apiUpdateArticle)    // PUT /api/articles/123
					r.Delete("/", h.apiDeleteArticle) // DELETE /api/articles/123
				})
			})
		})
	})
}

// pageError sends anonymous users to the login page and renders every other
// failure as an error page.
func (h *Handler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, article.ErrUnauthenticated) {
		http.Redirect(w, r, loginURL(r), http.StatusSeeOther)

		return
	}

	status := errresponse.StatusCode(err)
	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	} else {
		h.logError(r, err)
	}

	h.render(w, r, status, "error.html", errorPage{
		Who:     identity.FromContext(r.Context()),
		Status:  status,
		Message: message,
	})
}

func (h *Handler) apiError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errresponse.FromError(err)
	if errresponse.StatusCode(err) >= http.StatusInternalServerError {
		h.logError(r, err)
	}
	if err := render.Render(w, r, resp); err != nil {
		h.logError(r, err)
	}
}

// counted records a request the gate middlewares stopped as a failed article
// operation, then answers it with fail.
func (h *Handler) counted(fail ErrorFunc) ErrorFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		h.Metrics.Operation(r.Context(), operation(r), err)
		fail(w, r, err)
	}
}

// operation names the article operation an article route serves.
func operation(r *http.Request) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/edit") || r.Method == http.MethodPut:
		return "update"
	case strings.HasSuffix(path, "/delete") || r.Method == http.MethodDelete:
		return "delete"
	case strings.HasSuffix(path, "/new"):
		return "create"
	case strings.HasSuffix(path, articlesPath):
		if r.Method == http.MethodPost {
			return "create"
		}

		return "list"
	default:
		return "detail"
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logError(r, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) logError(r *http.Request, err error) {
	h.Log.Errorw(err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
}

// names resolves author names, looking each author up once per request.
func (h *Handler) names(ctx context.Context) articleresponse.AuthorNames {
	seen := make(map[uint]string)

	return func(id uint) string {
		if name, ok := seen[id]; ok {
			return name
		}
		name := ""
		if h.Users != nil {
			name = h.Users.Name(ctx, id)
		}
		seen[id] = name

		return name
	}
}

func articleURL(id uint) string {
	return articlesPath + "/" + strconv.FormatUint(uint64(id), 10)
}

// loginURL points to the login page and back to the current page. Non-GET
// requests come back to the article list.
func loginURL(r *http.Request) string {
	next := articlesPath
	if r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}

	return loginPath + "?next=" + url.QueryEscape(next)
}

// safeNext only allows local paths as a post login target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return articlesPath
	}

	return next
}
