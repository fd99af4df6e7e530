package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/blog/internal/article"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

var (
	ErrNotFound        = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
	ErrForbidden       = &ErrResponse{HTTPStatusCode: http.StatusForbidden, StatusText: "Forbidden."}
	ErrUnauthenticated = &ErrResponse{HTTPStatusCode: http.StatusUnauthorized, StatusText: "Authentication required."}
	ErrBadCredentials  = &ErrResponse{HTTPStatusCode: http.StatusUnauthorized, StatusText: "Wrong username or password."}
)

// FromError maps article errors to their response. Anything unknown is an
// internal error, and its text is not sent to the client.
func FromError(err error) render.Renderer {
	switch {
	case errors.Is(err, article.ErrUnauthenticated):
		return ErrUnauthenticated
	case errors.Is(err, article.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, article.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, article.ErrInvalid):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnprocessableEntity,
			StatusText:     "Invalid article.",
			ErrorText:      err.Error(),
		}
	default:
		return ErrInternal(err)
	}
}

// StatusCode returns the HTTP status FromError would answer err with.
func StatusCode(err error) int {
	if e, ok := FromError(err).(*ErrResponse); ok {
		return e.HTTPStatusCode
	}

	return http.StatusInternalServerError
}
