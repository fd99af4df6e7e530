package userpayload

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/identity"
)

// UserPayload describes an article author in API responses.
type UserPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func NewUserPayloadResponse(id uint, name string) *UserPayload {
	return &UserPayload{ID: id, Name: name}
}

// Render marks the author as "owner" when the requester wrote the article.
func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	u.Role = "author"
	if who := identity.FromContext(r.Context()); who.Authenticated() && who.UserID == u.ID {
		u.Role = "owner"
	}

	return nil
}
