// Package session signs users in with a signed token kept in an HttpOnly
// cookie. The token is an HS256 JWT whose subject is the user name.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// Issuer is written into and required from every session token.
	Issuer = "bookstore"
	// MinSecretLength is the shortest accepted signing secret, in bytes.
	MinSecretLength = 32
)

var ErrNoSession = errors.New("no session cookie")

// Manager issues and verifies session cookies.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

type Option func(*Manager)

// WithSecureCookie marks issued cookies as HTTPS only.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret []byte, cookieName string, ttl time.Duration, opts ...Option) (*Manager, error) {
	var errList []error
	if len(secret) < MinSecretLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("session secret length", len(secret), MinSecretLength, "unbounded"))
	}
	if cookieName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("session cookie name"))
	}
	if ttl <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("session ttl", ttl.String(), "1ns", "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	m := &Manager{
		secret:     append([]byte(nil), secret...),
		cookieName: cookieName,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// SignIn issues a token for user and sets it as a cookie on the response. A
// persistent cookie survives browser restarts until the token expires;
// otherwise it lives for the browser session only.
func (m *Manager) SignIn(c echo.Context, user string, persistent bool) error {
	principal, err := kernel.NewPrincipal(user)
	if err != nil {
		return err
	}

	now := m.now()
	expires := now.Add(m.ttl)
	token, err := m.issue(principal, now, expires)
	if err != nil {
		return err
	}

	cookie := m.cookie(token)
	if persistent {
		cookie.Expires = expires
	}
	c.SetCookie(cookie)
	return nil
}

// SignOut clears the session cookie.
func (m *Manager) SignOut(c echo.Context) {
	cookie := m.cookie("")
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

// Authenticate returns the principal of the session cookie on r.
func (m *Manager) Authenticate(r *http.Request) (kernel.Principal, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return kernel.Principal{}, ErrNoSession
	}
	return m.Verify(cookie.Value)
}

// Verify parses a session token and returns its principal.
func (m *Manager) Verify(raw string) (kernel.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return kernel.Principal{}, fmt.Errorf("invalid session token: %w", err)
	}
	return kernel.NewPrincipal(claims.Subject)
}

func (m *Manager) issue(p kernel.Principal, now, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   p.Name(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware attaches the session principal to the request context. Requests
// without a valid session pass through anonymously; rejecting them is up to
// the code that needs a principal.
func Middleware(m *Manager, logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "session"))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			principal, err := m.Authenticate(req)
			switch {
			case err == nil:
				c.SetRequest(req.WithContext(kernel.WithPrincipal(req.Context(), principal)))
			case !errors.Is(err, ErrNoSession):
				logger.Debug("ignoring invalid session cookie", zap.Error(err))
			}
			return next(c)
		}
	}
}
