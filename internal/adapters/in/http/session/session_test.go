package session_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/internal/adapters/in/http/session"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	m, err := session.NewManager(testSecret, "bookstore_session", time.Hour, opts...)
	require.NoError(t, err)
	return m
}

func signIn(t *testing.T, m *session.Manager, user string, persistent bool) *http.Cookie {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, m.SignIn(c, user, persistent))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestNewManager_RejectsBadSettings(t *testing.T) {
	_, err := session.NewManager([]byte("short"), "", 0)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSignIn_SetsHttpOnlyCookie(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, session.WithClock(func() time.Time { return now }))

	t.Run("persistent", func(t *testing.T) {
		cookie := signIn(t, m, "SampleUser", true)

		assert.Equal(t, "bookstore_session", cookie.Name)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.True(t, cookie.Expires.Equal(now.Add(time.Hour)))
	})

	t.Run("browser session", func(t *testing.T) {
		cookie := signIn(t, m, "SampleUser", false)

		assert.True(t, cookie.Expires.IsZero())
	})

	t.Run("empty user", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		require.ErrorIs(t, m.SignIn(c, " ", true), errs.ErrValueIsRequired)
	})
}

func TestAuthenticate(t *testing.T) {
	m := newManager(t)

	t.Run("round trip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(signIn(t, m, "SampleUser", true))

		principal, err := m.Authenticate(req)

		require.NoError(t, err)
		assert.Equal(t, "SampleUser", principal.Name())
	})

	t.Run("no cookie", func(t *testing.T) {
		_, err := m.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))

		require.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other, err := session.NewManager([]byte(strings.Repeat("x", session.MinSecretLength)), "bookstore_session", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(signIn(t, other, "SampleUser", true))

		_, err = m.Authenticate(req)

		require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})
}

func TestVerify(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	m := newManager(t, session.WithClock(func() time.Time { return clock }))
	token := signIn(t, m, "SampleUser", true).Value

	t.Run("expired", func(t *testing.T) {
		clock = issuedAt.Add(2 * time.Hour)
		defer func() { clock = issuedAt }()

		_, err := m.Verify(token)

		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    session.Issuer,
			Subject:   "SampleUser",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(unsigned)

		require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "SampleUser",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = m.Verify(signed)

		require.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})
}

func TestMiddleware(t *testing.T) {
	m := newManager(t)
	e := echo.New()
	var seen []string
	e.Use(session.Middleware(m, zap.NewNop()))
	e.GET("/whoami", func(c echo.Context) error {
		p, ok := kernel.PrincipalFrom(c.Request().Context())
		if ok {
			seen = append(seen, p.Name())
		} else {
			seen = append(seen, "anonymous")
		}
		return c.NoContent(http.StatusNoContent)
	})

	withCookie := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	withCookie.AddCookie(signIn(t, m, "SampleUser", true))
	garbage := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	garbage.AddCookie(&http.Cookie{Name: "bookstore_session", Value: "not-a-token"})

	for _, req := range []*http.Request{withCookie, httptest.NewRequest(http.MethodGet, "/whoami", nil), garbage} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, []string{"SampleUser", "anonymous", "anonymous"}, seen)
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	m := newManager(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.SignOut(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
