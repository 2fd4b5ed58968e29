package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"pokeidle/server/account"
	"pokeidle/server/httpx"
	"pokeidle/server/metrics"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
)

const Issuer = "poke-idle"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrAccountExists      = errors.New("username or email already taken")
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	// Endpoint overrides google.Endpoint.
	Endpoint *oauth2.Endpoint
	// UserInfoURL overrides the Google userinfo endpoint.
	UserInfoURL string
}

type Options struct {
	Store     store.Store
	Accounts  *account.Accounts
	DataDir   string
	TTL       time.Duration
	ClientURL string
	Google    GoogleConfig
	Log       *zap.Logger
}

type Service struct {
	store     store.Store
	accounts  *account.Accounts
	jwtKey    []byte
	ttl       time.Duration
	clientURL string
	limiter   *Limiter
	google    *googleProvider
	log       *zap.Logger
	now       func() time.Time
}

func New(opts Options) (*Service, error) {
	key, err := loadKey(opts.DataDir)
	if err != nil {
		return nil, err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Service{
		store:     opts.Store,
		accounts:  opts.Accounts,
		jwtKey:    key,
		ttl:       ttl,
		clientURL: strings.TrimRight(opts.ClientURL, "/"),
		limiter:   NewLimiter(),
		log:       opts.Log.Named("auth"),
		now:       time.Now,
	}
	s.google = newGoogleProvider(opts.Google)
	return s, nil
}

// loadKey reads the HMAC key from dataDir/jwt.key, creating it when missing.
func loadKey(dataDir string) ([]byte, error) {
	keyPath := filepath.Join(dataDir, "jwt.key")
	key, err := os.ReadFile(keyPath)
	if err == nil && len(key) >= 32 {
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate jwt key: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("write jwt key: %w", err)
	}
	return key, nil
}

func (s *Service) Limiter() *Limiter { return s.limiter }

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if n := len([]rune(in.Username)); n < 3 || n > 50 {
		return httpx.Invalid("username", "must be 3 to 50 characters")
	}
	if !validEmail(in.Email) {
		return httpx.Invalid("email", "must be a valid email")
	}
	if len(in.Password) < 6 {
		return httpx.Invalid("password", "must be at least 6 characters")
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, "@")
}

// Register creates an account with the default player state and signs a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.User, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Player:       types.NewPlayer(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}
	tok, err := s.IssueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return u, tok, nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials for peer, subject to the failed-login limiter.
func (s *Service) Login(ctx context.Context, peer string, in LoginInput) (*store.User, string, error) {
	if ok, _ := s.limiter.Allow(peer); !ok {
		metrics.LoginAttempts.WithLabelValues("limited").Inc()
		return nil, "", ErrRateLimited
	}
	email := strings.TrimSpace(in.Email)
	if !validEmail(email) {
		return nil, "", httpx.Invalid("email", "must be a valid email")
	}
	if in.Password == "" {
		return nil, "", httpx.Invalid("password", "is required")
	}
	u, err := s.store.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		s.limiter.Fail(peer)
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, "", ErrInvalidCredentials
	}
	s.limiter.Reset(peer)
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	tok, err := s.IssueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user logged in", zap.Int64("user_id", u.ID))
	return u, tok, nil
}

// Claims are the validated parts of a session token.
type Claims struct {
	UserID    int64
	JTI       string
	ExpiresAt time.Time
}

func (s *Service) IssueToken(userID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(tok string, subject string) (*jwt.RegisteredClaims, error) {
	if tok == "" {
		return nil, ErrUnauthorized
	}
	var claims jwt.RegisteredClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if subject != "" {
		opts = append(opts, jwt.WithSubject(subject))
	}
	t, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return s.jwtKey, nil }, opts...)
	if err != nil || !t.Valid {
		return nil, ErrUnauthorized
	}
	return &claims, nil
}

// Authenticate validates a session token and checks revocation.
func (s *Service) Authenticate(ctx context.Context, tok string) (Claims, error) {
	rc, err := s.parse(tok, "")
	if err != nil {
		return Claims{}, err
	}
	id, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || id <= 0 || rc.ID == "" {
		return Claims{}, ErrUnauthorized
	}
	revoked, err := s.store.IsTokenRevoked(ctx, rc.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}
	return Claims{UserID: id, JTI: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, c Claims) error {
	if err := s.store.RevokeToken(ctx, c.JTI, c.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info("user logged out", zap.Int64("user_id", c.UserID))
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*store.User, error) {
	return s.store.UserByID(ctx, userID)
}

// PurgeRevoked drops expired revocations and idle limiter entries.
func (s *Service) PurgeRevoked(ctx context.Context) error {
	s.limiter.Sweep()
	n, err := s.store.PurgeRevoked(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug("purged revoked tokens", zap.Int64("count", n))
	}
	return nil
}

func randomSecret() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
