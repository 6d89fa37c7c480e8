package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"superlists/internal/domain"
	"superlists/internal/repository"
)

// InactiveLoginPolicy decide que mensaje recibe una cuenta valida pero inactiva.
type InactiveLoginPolicy string

const (
	// InactiveLoginDistinct muestra "This account is not active".
	InactiveLoginDistinct InactiveLoginPolicy = "distinct"
	// InactiveLoginGeneric muestra el mismo mensaje que credenciales incorrectas.
	InactiveLoginGeneric InactiveLoginPolicy = "generic"

	DefaultInactiveLoginPolicy = InactiveLoginDistinct
)

const (
	MsgLoginIncorrect   = "Username or password incorrect"
	MsgAccountInactive  = "This account is not active"
	MsgLoginRateLimited = "Too many login attempts, try again later"
	MsgLoginUnavailable = "Login is temporarily unavailable"
)

const defaultSessionTTL = 14 * 24 * time.Hour

// SessionService autentica credenciales y administra sesiones del lado del servidor.
type SessionService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	profiles repository.ProfileRepository
	store    SessionStore
	tokens   *SessionTokenService
	limiter  LoginLimiter
	ttl      time.Duration
	policy   InactiveLoginPolicy
	now      func() time.Time
}

func NewSessionService(
	logger *zap.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	store SessionStore,
	tokens *SessionTokenService,
	limiter LoginLimiter,
	ttl time.Duration,
	policy InactiveLoginPolicy,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if policy == "" {
		policy = DefaultInactiveLoginPolicy
	}
	return &SessionService{
		logger:   logger,
		users:    users,
		profiles: profiles,
		store:    store,
		tokens:   tokens,
		limiter:  limiter,
		ttl:      ttl,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult trae la sesion creada y el token firmado para la cookie.
type LoginResult struct {
	Session domain.Session
	Token   string
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy iguala el costo de un login con usuario inexistente.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("superlists-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *SessionService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if s.users == nil || s.tokens == nil {
		return LoginResult{}, errors.New("session service not configured")
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if s.limiterBlocked(ctx, username) {
		s.logger.Warn("login rate limited", zap.String("username", username))
		return LoginResult{}, ErrRateLimited
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			compareDummy(password)
			s.recordFailure(ctx, username)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if user.PasswordHash == "" {
		s.recordFailure(ctx, username)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, username)
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginResult{}, ErrAccountInactive
	}

	var profileID int64
	if s.profiles != nil {
		profile, err := s.profiles.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			profileID = profile.ID
		case errors.Is(err, pgx.ErrNoRows):
			s.logger.Warn("login without profile", zap.String("username", user.Username))
		default:
			return LoginResult{}, err
		}
	}

	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ProfileID: profileID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.tokens.Sign(session)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session: %w", err)
	}
	if err := s.store.Save(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn("reset login failures failed", zap.Error(err), zap.String("username", user.Username))
		}
	}

	s.logger.Info("login", zap.String("username", user.Username))
	return LoginResult{Session: session, Token: token}, nil
}

// limiterBlocked no bloquea el login si el limitador falla.
func (s *SessionService) limiterBlocked(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return false
	}
	blocked, err := s.limiter.Blocked(ctx, username)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
		return false
	}
	return blocked
}

func (s *SessionService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.logger.Warn("record login failure failed", zap.Error(err), zap.String("username", username))
	}
}

// Logout elimina la sesion del token si existe. Sin sesion no hace nada.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" || s.tokens == nil {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, claims.ID)
}

// Current resuelve la sesion vigente a partir del token de la cookie.
func (s *SessionService) Current(ctx context.Context, token string) (domain.Session, error) {
	if s.tokens == nil {
		return domain.Session{}, ErrNoSession
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Session{}, ErrNoSession
	}
	session, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, err
	}
	if session.UserID != claims.UserID {
		return domain.Session{}, ErrNoSession
	}
	return session, nil
}

// TTL es la vida de una sesion nueva.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// LoginFailureMessage traduce un error de Login al mensaje visible para el usuario.
func (s *SessionService) LoginFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return MsgLoginIncorrect
	case errors.Is(err, ErrAccountInactive):
		if s.policy == InactiveLoginGeneric {
			return MsgLoginIncorrect
		}
		return MsgAccountInactive
	case errors.Is(err, ErrRateLimited):
		return MsgLoginRateLimited
	default:
		return MsgLoginUnavailable
	}
}
