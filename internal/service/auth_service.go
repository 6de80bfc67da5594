package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"github.com/dom/xwing-campaign/internal/config"
	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/metrics"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "session"
	CSRFHeader    = "X-Auth-Token"

	maxPasswordBytes = 72
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      PasswordHasher
	cfg         *config.Config
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, hasher PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Login checks the password of username and opens a new session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.Invalid("missing username or password")
	}

	user, err := s.userRepo.FindOne(ctx, repository.Filter{"name": username})
	if err != nil {
		metrics.Logins.WithLabelValues("unknown_user").Inc()
		return nil, err
	}

	if user.PwHash == "" {
		metrics.Logins.WithLabelValues("bad_password").Inc()
		return nil, domain.BadPassword("No password set for %s", username)
	}

	matches, err := s.hasher.Verify(password, user.PwHash)
	if err != nil {
		log.Printf("ERROR [auth.Login] user=%s verify failed: %v", username, err)
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, domain.ServiceError("authentication error")
	}
	if !matches {
		metrics.Logins.WithLabelValues("bad_password").Inc()
		return nil, domain.BadPassword("Wrong password")
	}

	token, err := randomToken()
	if err != nil {
		return nil, domain.ServiceError("failed to create session")
	}
	csrfToken, err := randomToken()
	if err != nil {
		return nil, domain.ServiceError("failed to create session")
	}

	session := &domain.Session{
		User:      user.Name,
		Token:     token,
		CSRFToken: csrfToken,
		Expires:   s.now().Add(s.cfg.SessionTTL),
	}
	sessionID, err := s.sessionRepo.Put(ctx, session)
	if err != nil {
		log.Printf("ERROR [auth.Login] user=%s storing session failed: %v", username, err)
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, domain.ServiceError("failed to store session")
	}

	log.Printf("Created session %s for %s", sessionID, user.Name)
	metrics.Logins.WithLabelValues("success").Inc()
	return session, nil
}

// CookieValue signs the session token for the session cookie.
func (s *AuthService) CookieValue(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.User,
		"sid": session.Token,
		"exp": session.Expires.Unix(),
		"iat": s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *AuthService) sessionToken(cookieValue string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("missing session id")
	}
	return sid, nil
}

// Authenticate resolves the session cookie and CSRF token of a request to
// the session and its user. Every rejection is Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, cookieValue, csrfToken string) (*domain.User, *domain.Session, error) {
	if cookieValue == "" || csrfToken == "" {
		return nil, nil, domain.Unauthorized("Missing authentication token")
	}

	token, err := s.sessionToken(cookieValue)
	if err != nil {
		log.Printf("ERROR [auth.Authenticate] cookie rejected: %v", err)
		return nil, nil, domain.Unauthorized("invalid session")
	}

	session, err := s.sessionRepo.FindOne(ctx, repository.Filter{"token": token, "csrf_token": csrfToken})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, nil, domain.Unauthorized("invalid session")
		}
		return nil, nil, err
	}

	if session.Expired(s.now()) {
		log.Printf("Session for %s is expired", session.User)
		return nil, nil, domain.Unauthorized("Session expired")
	}

	user, err := s.userRepo.FindOne(ctx, repository.Filter{"name": session.User})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, nil, domain.Unauthorized("invalid session")
		}
		return nil, nil, err
	}

	return user, session, nil
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if err := s.sessionRepo.Delete(ctx, session.ID, session.Version); err != nil {
		return err
	}
	log.Printf("Logout %s from %s", session.User, session.ID)
	return nil
}

// SetPassword stores a new password hash on user. The caller persists it.
func (s *AuthService) SetPassword(user *domain.User, password string) (*domain.User, error) {
	if password == "" {
		return nil, domain.Invalid("Password must be set")
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.Invalid("Password must not exceed %d bytes", maxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Printf("ERROR [auth.SetPassword] user=%s: %v", user.Name, err)
		return nil, domain.ServiceError("failed to hash password")
	}
	user.PwHash = hash
	return user, nil
}

// PurgeExpired deletes sessions that can no longer authenticate.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
