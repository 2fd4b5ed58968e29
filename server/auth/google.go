package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"pokeidle/server/account"
	"pokeidle/server/metrics"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateSubject      = "google-oauth-state"
	stateTTL          = 10 * time.Minute
)

var usernameStrip = regexp.MustCompile(`[^a-zA-Z0-9_]`)

type googleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// newGoogleProvider returns nil when the credentials are incomplete.
func newGoogleProvider(gc GoogleConfig) *googleProvider {
	if gc.ClientID == "" || gc.ClientSecret == "" || gc.CallbackURL == "" {
		return nil
	}
	ep := google.Endpoint
	if gc.Endpoint != nil {
		ep = *gc.Endpoint
	}
	info := gc.UserInfoURL
	if info == "" {
		info = googleUserInfoURL
	}
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     gc.ClientID,
			ClientSecret: gc.ClientSecret,
			RedirectURL:  gc.CallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     ep,
		},
		userInfoURL: info,
	}
}

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Service) handleGoogleRedirect(c echo.Context) error {
	if s.google == nil {
		return c.JSON(http.StatusInternalServerError, protocol.MessageResponse{Message: "Google OAuth not configured"})
	}
	now := s.now()
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   stateSubject,
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}).SignedString(s.jwtKey)
	if err != nil {
		return fmt.Errorf("sign oauth state: %w", err)
	}
	url := s.google.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return c.Redirect(http.StatusFound, url)
}

func (s *Service) loginRedirect(c echo.Context, reason string) error {
	return c.Redirect(http.StatusFound, s.clientURL+"/login?error="+reason)
}

func (s *Service) handleGoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if s.google == nil || c.QueryParam("error") != "" || code == "" {
		return s.loginRedirect(c, "google_denied")
	}
	if _, err := s.parse(c.QueryParam("state"), stateSubject); err != nil {
		s.log.Warn("google callback with bad state", zap.Error(err))
		return s.loginRedirect(c, "google_denied")
	}
	ctx := c.Request().Context()

	tok, err := s.google.cfg.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("google token exchange failed", zap.Error(err))
		return s.loginRedirect(c, "google_token")
	}
	gu, err := s.google.fetchUser(ctx, tok)
	if err != nil {
		s.log.Warn("google userinfo failed", zap.Error(err))
		return s.loginRedirect(c, "google_userinfo")
	}

	u, err := s.googleAccount(ctx, gu)
	if err != nil {
		return err
	}
	session, err := s.IssueToken(u.ID)
	if err != nil {
		return err
	}
	metrics.LoginAttempts.WithLabelValues("google").Inc()
	s.setCookie(c, session)
	return c.Redirect(http.StatusFound, s.clientURL+"/")
}

func (g *googleProvider) fetchUser(ctx context.Context, tok *oauth2.Token) (googleUser, error) {
	var gu googleUser
	resp, err := g.cfg.Client(ctx, tok).Get(g.userInfoURL)
	if err != nil {
		return gu, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return gu, fmt.Errorf("userinfo: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return gu, fmt.Errorf("userinfo: %w", err)
	}
	if gu.ID == "" || gu.Email == "" {
		return gu, errors.New("userinfo: missing id or email")
	}
	return gu, nil
}

// googleAccount finds the user by Google id, links an existing account by
// email, or creates a new one.
func (s *Service) googleAccount(ctx context.Context, gu googleUser) (*store.User, error) {
	u, err := s.store.UserByGoogleID(ctx, gu.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	u, err = s.store.UserByEmail(ctx, gu.Email)
	switch {
	case err == nil:
		if err := s.linkGoogle(ctx, u, gu.ID); err != nil {
			return nil, err
		}
		s.log.Info("google account linked", zap.Int64("user_id", u.ID))
		return u, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	username := usernameStrip.ReplaceAllString(gu.Name, "")
	if len(username) > 40 {
		username = username[:40]
	}
	if len(username) < 3 {
		username = "trainer" + username
	}
	if _, err := s.store.UserByUsername(ctx, username); err == nil {
		username += strconv.FormatInt(s.now().UnixMilli()%10000, 10)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(randomSecret()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	gid := gu.ID
	u = &store.User{
		Username:     username,
		Email:        gu.Email,
		PasswordHash: string(hash),
		GoogleID:     &gid,
		Player:       types.NewPlayer(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered with google", zap.Int64("user_id", u.ID), zap.String("username", username))
	return u, nil
}

// linkGoogle stores the Google id through the account cache when one is
// wired, so a live session does not overwrite it.
func (s *Service) linkGoogle(ctx context.Context, u *store.User, googleID string) error {
	gid := googleID
	u.GoogleID = &gid
	if s.accounts == nil {
		return s.store.UpdateUser(ctx, u)
	}
	return s.accounts.Update(ctx, u.ID, func(st *account.State) error {
		st.User.GoogleID = &gid
		return nil
	})
}
