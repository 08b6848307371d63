package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"didacta-calendar/pkg/audit"
	"didacta-calendar/pkg/sessions"
)

type AuthService interface {
	// Authenticate checks the credentials of an active user.
	Authenticate(ctx context.Context, rut string, password string) (*User, error)
	Register(ctx context.Context, form RegistrationForm) (Identity, error)
	Login(ctx context.Context, form LoginForm) (Identity, error)
	CurrentIdentity(ctx context.Context, token string) (Identity, error)
	Logout(ctx context.Context, identity Identity) error
	CreateSuperuser(ctx context.Context, rut string, password string) (*User, error)
}

type authService struct {
	users    UserRepository
	sessions sessions.Store
	recorder *audit.Recorder
	cost     int
}

func NewAuthService(users UserRepository, store sessions.Store, recorder *audit.Recorder) AuthService {
	return &authService{
		users:    users,
		sessions: store,
		recorder: recorder,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *authService) Authenticate(ctx context.Context, rut string, password string) (*User, error) {
	user, err := s.users.GetUserByRut(ctx, strings.TrimSpace(rut))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, storeError("get user", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) Register(ctx context.Context, form RegistrationForm) (Identity, error) {
	err := ValidateRegistration(form)
	if err != nil {
		return Identity{}, err
	}

	user, err := s.createUser(ctx, form.Rut, form.Password1, false)
	if err != nil {
		return Identity{}, err
	}

	s.record(ctx, user.Id, "", "register", "Registro exitoso.")

	return s.startSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, form LoginForm) (Identity, error) {
	err := ValidateLogin(form)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	user, err := s.Authenticate(ctx, form.Rut, form.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Ctx(ctx).Info().Str("component", "auth").Str("rut", strings.TrimSpace(form.Rut)).Msg("login rejected")
			s.record(ctx, "", "", "login_failed", "RUT o contraseña inválidos.")
		}

		return Identity{}, err
	}

	identity, err := s.startSession(ctx, user)
	if err != nil {
		return Identity{}, err
	}

	s.record(ctx, user.Id, identity.SessionId, "login", fmt.Sprintf("Has iniciado sesión como %s.", user.Rut))

	return identity, nil
}

// CurrentIdentity maps a session token to its identity. Unknown or expired tokens, and sessions
// of deleted or deactivated users, are anonymous.
func (s *authService) CurrentIdentity(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}

	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, sessions.ErrSessionNotFound) {
		return Identity{}, nil
	}

	if err != nil {
		return Identity{}, storeError("get session", err)
	}

	// Admin and active flags are read from the user row, not the session snapshot.
	user, err := s.users.GetUserById(ctx, session.UserId)
	if errors.Is(err, ErrUserNotFound) || (err == nil && !user.IsActive) {
		s.dropSession(ctx, session.Token)
		return Identity{}, nil
	}

	if err != nil {
		return Identity{}, storeError("get session user", err)
	}

	return Identity{
		UserId:    user.Id,
		Rut:       user.Rut,
		IsAdmin:   user.IsAdmin,
		SessionId: session.Token,
	}, nil
}

func (s *authService) dropSession(ctx context.Context, token string) {
	err := s.sessions.Delete(ctx, token)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "auth").Msg("failed to drop stale session")
	}
}

func (s *authService) Logout(ctx context.Context, identity Identity) error {
	err := s.sessions.Delete(ctx, identity.SessionId)
	if err != nil {
		return storeError("delete session", err)
	}

	s.record(ctx, identity.UserId, identity.SessionId, "logout", "Has cerrado sesión exitosamente.")

	return nil
}

func (s *authService) CreateSuperuser(ctx context.Context, rut string, password string) (*User, error) {
	err := ValidateRegistration(RegistrationForm{Rut: rut, Password1: password, Password2: password})
	if err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, rut, password, true)
	if err != nil {
		return nil, err
	}

	s.record(ctx, user.Id, "", "create_superuser", "Superusuario creado.")

	return user, nil
}

func (s *authService) createUser(ctx context.Context, rut string, password string, isAdmin bool) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.SaveUser(ctx, &User{
		Rut:          strings.TrimSpace(rut),
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		IsActive:     true,
	})
	if err != nil {
		return nil, storeError("save user", err)
	}

	return user, nil
}

func (s *authService) startSession(ctx context.Context, user *User) (Identity, error) {
	session, err := s.sessions.Create(ctx, sessions.Session{
		UserId:  user.Id,
		Rut:     user.Rut,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return Identity{}, storeError("create session", err)
	}

	return Identity{
		UserId:    user.Id,
		Rut:       user.Rut,
		IsAdmin:   user.IsAdmin,
		SessionId: session.Token,
	}, nil
}

func (s *authService) record(ctx context.Context, userId string, sessionId string, operation string, message string) {
	s.recorder.Record(ctx, audit.Entry{
		Level:     audit.LevelInfo,
		Component: "auth",
		Operation: operation,
		Message:   message,
		UserId:    userId,
		SessionId: sessionId,
		Timestamp: time.Now().UTC(),
	})
}
