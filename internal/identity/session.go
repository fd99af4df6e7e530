package identity

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

const (
	sessionUID      = "uid"
	sessionUsername = "username"
)

// Sessions keeps the logged in identity in an scs session.
type Sessions struct {
	Manager *scs.SessionManager
}

// NewSessions wraps manager. The caller is responsible for wrapping the router
// with manager.LoadAndSave.
func NewSessions(manager *scs.SessionManager) *Sessions {
	return &Sessions{Manager: manager}
}

// Login renews the session token, so a session fixated before login is not
// reused, and stores the identity in the session.
func (s *Sessions) Login(ctx context.Context, id Identity) error {
	if err := s.Manager.RenewToken(ctx); err != nil {
		return err
	}
	s.Manager.Put(ctx, sessionUID, int(id.UserID))
	s.Manager.Put(ctx, sessionUsername, id.Username)

	return nil
}

// Logout removes the identity and destroys the session.
func (s *Sessions) Logout(ctx context.Context) error {
	s.Manager.Remove(ctx, sessionUID)
	s.Manager.Remove(ctx, sessionUsername)

	return s.Manager.Destroy(ctx)
}

func (s *Sessions) Identify(r *http.Request) (Identity, error) {
	uid := s.Manager.GetInt(r.Context(), sessionUID)
	if uid <= 0 {
		return Anonymous, nil
	}

	return Identity{
		UserID:   uint(uid),
		Username: s.Manager.GetString(r.Context(), sessionUsername),
	}, nil
}
