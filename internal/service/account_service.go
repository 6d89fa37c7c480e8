package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"superlists/internal/domain"
	"superlists/internal/email"
	"superlists/internal/repository"
)

// AccountOptions controla el flujo de registro y confirmacion.
type AccountOptions struct {
	// EmailVerification crea usuarios inactivos y envia el enlace de confirmacion.
	EmailVerification bool
	// ConfirmationTTL vence el codigo de confirmacion; cero significa sin vencimiento.
	ConfirmationTTL time.Duration
}

// AccountService coordina el registro de cuentas y su confirmacion por correo.
type AccountService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tx       repository.TxManager
	sender   email.Sender
	links    email.ConfirmationLinks
	opts     AccountOptions
	now      func() time.Time
}

func NewAccountService(
	logger *zap.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tx repository.TxManager,
	sender email.Sender,
	links email.ConfirmationLinks,
	opts AccountOptions,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		logger:   logger,
		users:    users,
		profiles: profiles,
		tx:       tx,
		sender:   sender,
		links:    links,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegistrationResult describe una cuenta recien creada.
// DispatchErr no nil significa que la cuenta existe pero el correo no salio.
type RegistrationResult struct {
	User                domain.User
	Profile             domain.Profile
	PendingConfirmation bool
	DispatchErr         *DispatchError
}

// ConfirmationResult es lo que ve el usuario al abrir el enlace de confirmacion.
type ConfirmationResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (RegistrationResult, error) {
	if s.users == nil || s.profiles == nil || s.tx == nil {
		return RegistrationResult{}, errors.New("account service not configured")
	}

	input = input.normalized()
	if err := s.validate(ctx, input); err != nil {
		return RegistrationResult{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegistrationResult{}, err
	}
	code, err := generateConfirmationCode()
	if err != nil {
		return RegistrationResult{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashBytes),
		IsActive:     !s.opts.EmailVerification,
		CreatedAt:    now,
	}

	var profile domain.Profile
	err = s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Users().Create(ctx, user); err != nil {
			return err
		}
		created, err := repos.Profiles().Create(ctx, domain.Profile{
			UserID:           user.ID,
			ConfirmationCode: code,
			CreatedAt:        now,
		})
		if err != nil {
			return err
		}
		profile = created
		return nil
	})
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) && (conflict.Field == "username" || conflict.Field == "email") {
			verr := newValidationError(conflict.Field, ReasonInUse)
			verr.Cause = err
			return RegistrationResult{}, verr
		}
		return RegistrationResult{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered",
		zap.String("username", user.Username),
		zap.Int64("profile_id", profile.ID),
		zap.Bool("pending_confirmation", s.opts.EmailVerification),
	)

	result := RegistrationResult{
		User:                user,
		Profile:             profile,
		PendingConfirmation: s.opts.EmailVerification,
	}
	if s.opts.EmailVerification {
		result.DispatchErr = s.dispatch(ctx, user, profile)
	}
	return result, nil
}

// validate aplica el pipeline ordenado: campos, coincidencia de contraseñas, email, username.
func (s *AccountService) validate(ctx context.Context, input RegisterInput) error {
	if errs := validateFields(input); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	if input.Password != input.ConfirmPassword {
		return newValidationError("password", ReasonMismatch)
	}

	inUse, err := s.users.EmailInUse(ctx, input.Email, input.Username)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if inUse {
		return newValidationError("email", ReasonInUse)
	}

	// La restriccion unica de la base es la autoridad; esto solo mejora el mensaje.
	taken, err := s.users.UsernameExists(ctx, input.Username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return newValidationError("username", ReasonInUse)
	}
	return nil
}

func (s *AccountService) dispatch(ctx context.Context, user domain.User, profile domain.Profile) *DispatchError {
	if s.sender == nil {
		derr := &DispatchError{ProfileID: profile.ID, Err: errors.New("email sender not configured")}
		s.logger.Error("send confirmation failed", zap.Error(derr), zap.Int64("profile_id", profile.ID))
		return derr
	}

	body := s.links.ConfirmationBody(profile.ID, profile.ConfirmationCode)
	if err := s.sender.Send(ctx, user.Email, email.ConfirmationSubject, body); err != nil {
		s.logger.Error("send confirmation failed",
			zap.Error(err),
			zap.Int64("profile_id", profile.ID),
			zap.String("username", user.Username),
		)
		return &DispatchError{ProfileID: profile.ID, Err: err}
	}

	if err := s.profiles.MarkConfirmationSent(ctx, profile.ID, s.now()); err != nil {
		s.logger.Warn("mark confirmation sent failed", zap.Error(err), zap.Int64("profile_id", profile.ID))
	}
	return nil
}

// Confirm activa al usuario si el codigo coincide con el del perfil.
// Repetir la confirmacion de una cuenta activa vuelve a informar exito sin cambios.
func (s *AccountService) Confirm(ctx context.Context, profileID int64, code string) (ConfirmationResult, error) {
	if s.users == nil || s.profiles == nil {
		return ConfirmationResult{}, errors.New("account service not configured")
	}

	profile, user, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return ConfirmationResult{}, err
	}
	if !codesEqual(profile.ConfirmationCode, code) {
		return ConfirmationResult{}, ErrConfirmationInvalid
	}
	if user.IsActive {
		return ConfirmationResult{Success: true, Username: user.Username}, nil
	}
	if s.opts.ConfirmationTTL > 0 && s.now().After(profile.CreatedAt.Add(s.opts.ConfirmationTTL)) {
		return ConfirmationResult{}, ErrConfirmationExpired
	}

	if err := s.users.Activate(ctx, user.ID); err != nil {
		return ConfirmationResult{}, fmt.Errorf("activate user: %w", err)
	}
	s.logger.Info("account confirmed", zap.String("username", user.Username), zap.Int64("profile_id", profile.ID))
	return ConfirmationResult{Success: true, Username: user.Username}, nil
}

// ResendConfirmation vuelve a enviar el mismo codigo a una cuenta inactiva.
func (s *AccountService) ResendConfirmation(ctx context.Context, profileID int64) error {
	profile, user, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrAlreadyActive
	}
	if derr := s.dispatch(ctx, user, profile); derr != nil {
		return derr
	}
	return nil
}

// PendingConfirmations lista cuentas inactivas cuyo correo nunca fue enviado.
func (s *AccountService) PendingConfirmations(ctx context.Context, limit int) ([]domain.PendingConfirmation, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.profiles.ListPending(ctx, limit)
}

// ActivateProfile activa la cuenta sin codigo. Uso exclusivo de operadores.
func (s *AccountService) ActivateProfile(ctx context.Context, profileID int64) (domain.User, error) {
	_, user, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.Activate(ctx, user.ID); err != nil {
		return domain.User{}, fmt.Errorf("activate user: %w", err)
	}
	user.IsActive = true
	s.logger.Info("account activated by operator", zap.String("username", user.Username), zap.Int64("profile_id", profileID))
	return user, nil
}

func (s *AccountService) loadProfile(ctx context.Context, profileID int64) (domain.Profile, domain.User, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.User{}, ErrProfileNotFound
		}
		return domain.Profile{}, domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.User{}, ErrProfileNotFound
		}
		return domain.Profile{}, domain.User{}, err
	}
	return profile, user, nil
}
