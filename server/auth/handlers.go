package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"pokeidle/server/httpx"
	"pokeidle/server/store"
	"pokeidle/shared/protocol"
)

const (
	CookieName = "pokeidle_token"
	ctxClaims  = "auth_claims"
)

// Routes mounts the auth endpoints on g.
func (s *Service) Routes(g *echo.Group) {
	g.POST("/register", s.handleRegister)
	g.POST("/login", s.handleLogin)
	g.POST("/logout", s.handleLogout, s.Middleware())
	g.GET("/me", s.handleMe, s.Middleware())
	g.GET("/google/redirect", s.handleGoogleRedirect)
	g.GET("/google/callback", s.handleGoogleCallback)
}

// TokenFrom reads the session token from the Authorization header, the
// token query parameter or the session cookie, in that order.
func TokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if t := c.QueryParam("token"); t != "" {
		return t
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// Middleware rejects requests without a valid, unrevoked token.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := s.Authenticate(c.Request().Context(), TokenFrom(c))
			if err != nil {
				return err
			}
			c.Set(ctxClaims, claims)
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (Claims, bool) {
	cl, ok := c.Get(ctxClaims).(Claims)
	return cl, ok
}

// UserID returns the authenticated user, or 0 outside Middleware.
func UserID(c echo.Context) int64 {
	cl, _ := ClaimsFrom(c)
	return cl.UserID
}

func UserView(u *store.User) protocol.UserView {
	return protocol.UserView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (s *Service) setCookie(c echo.Context, tok string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
	})
}

func (s *Service) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

func (s *Service) handleRegister(c echo.Context) error {
	var in RegisterInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	u, tok, err := s.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	s.setCookie(c, tok)
	return c.JSON(http.StatusCreated, protocol.AuthResp{Token: tok, User: UserView(u)})
}

func (s *Service) handleLogin(c echo.Context) error {
	var in LoginInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	u, tok, err := s.Login(c.Request().Context(), c.RealIP(), in)
	if err != nil {
		return err
	}
	s.setCookie(c, tok)
	return c.JSON(http.StatusOK, protocol.AuthResp{Token: tok, User: UserView(u)})
}

func (s *Service) handleLogout(c echo.Context) error {
	claims, _ := ClaimsFrom(c)
	if err := s.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	s.clearCookie(c)
	return c.JSON(http.StatusOK, protocol.MessageResponse{Message: "Logged out"})
}

func (s *Service) handleMe(c echo.Context) error {
	u, err := s.Me(c.Request().Context(), UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserView(u))
}
