package middleware

import (
	"github.com/labstack/echo/v4"

	"swapi/internal/session"
	"swapi/pkg/errors"
	"swapi/pkg/response"
)

type AuthMiddleware struct {
	session *session.Session
}

func NewAuthMiddleware(sess *session.Session) *AuthMiddleware {
	return &AuthMiddleware{
		session: sess,
	}
}

// Authenticate rejects requests while nobody is signed in and stores the
// current user id under "uid".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := m.session.Current()
		if user == nil {
			return response.Error(c, errors.NotAuthenticated())
		}

		c.Set("uid", user.ID)
		return next(c)
	}
}
