package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/user"
)

type loginPage struct {
	Who      identity.Identity
	Username string
	Next     string
	Error    string
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	who := identity.FromContext(r.Context())
	next := safeNext(r.URL.Query().Get("next"))
	if who.Authenticated() {
		http.Redirect(w, r, next, http.StatusSeeOther)

		return
	}

	h.render(w, r, http.StatusOK, "login.html", loginPage{Who: who, Next: next})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pageError(w, r, err)

		return
	}
	name := r.PostForm.Get("username")
	next := safeNext(r.PostForm.Get("next"))

	who, err := h.Users.Authenticate(r.Context(), name, r.PostForm.Get("password"))
	if errors.Is(err, user.ErrAuth) {
		h.Log.Infow("failed login", "username", name, "remote", r.RemoteAddr)
		h.render(w, r, http.StatusUnauthorized, "login.html", loginPage{
			Who:      identity.Anonymous,
			Username: name,
			Next:     next,
			Error:    err.Error(),
		})

		return
	}
	if err == nil {
		err = h.Sessions.Login(r.Context(), who)
	}
	if err != nil {
		h.pageError(w, r, err)

		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context()); err != nil {
		h.pageError(w, r, err)

		return
	}

	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// issueToken exchanges a username and password for a bearer token.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.invalidRequest(w, r, err)

		return
	}

	who, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, user.ErrAuth) {
		if err := render.Render(w, r, errresponse.ErrBadCredentials); err != nil {
			h.logError(r, err)
		}

		return
	}
	var token string
	if err == nil {
		token, err = h.Tokens.Issue(who)
	}
	if err != nil {
		h.apiError(w, r, err)

		return
	}

	render.JSON(w, r, tokenResponse{Token: token})
}
