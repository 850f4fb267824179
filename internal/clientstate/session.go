package clientstate

import (
	"fmt"
	"log/slog"

	"devmart/internal/lib/logger/sl"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const SessionName = "devmart_client"

// SessionStore keeps client state in the signed session cookie of the
// current request.
type SessionStore struct {
	c    echo.Context
	sess *sessions.Session
}

var _ Store = (*SessionStore)(nil)

// NewSessionStore opens the client session of c. A cookie that no longer
// decodes is replaced by a fresh session, and the next Set overwrites it.
func NewSessionStore(c echo.Context, log *slog.Logger) (*SessionStore, error) {
	const op = "clientstate.NewSessionStore"

	sess, err := session.Get(SessionName, c)
	if err != nil {
		if sess == nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Warn("discarding undecodable client session", slog.String("op", op), sl.Err(err))
	}

	return &SessionStore{c: c, sess: sess}, nil
}

func (s *SessionStore) Get(key string) (string, bool, error) {
	v, ok := s.sess.Values[key].(string)
	return v, ok, nil
}

func (s *SessionStore) Set(key, value string) error {
	const op = "clientstate.SessionStore.Set"

	s.sess.Values[key] = value
	if err := s.sess.Save(s.c.Request(), s.c.Response()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionOptions are the cookie attributes used for client state.
func SessionOptions(secure bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		Secure:   secure,
	}
}
