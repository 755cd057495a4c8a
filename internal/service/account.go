package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// AccountService handles registration and login.
//
// DEPENDENCIES (injected via NewAccountService):
//   - users        repository.UserRepository → read/write account records
//   - provisioner  *Provisioner              → create profile/settings after registration
//   - tokens       *auth.TokenService        → issue session tokens
//   - passwords    *auth.PasswordService     → bcrypt hashing
//   - adminCode    string                    → the admin-escalation secret, "" = disabled
//
// The admin code is plain configuration handed in at construction — it is
// not read from the environment here, so tests can exercise both the
// configured and unconfigured cases.
type AccountService struct {
	users       repository.UserRepository
	provisioner *Provisioner
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	adminCode   string
	logger      *slog.Logger
}

// NewAccountService creates an AccountService with all required dependencies.
func NewAccountService(
	users repository.UserRepository,
	provisioner *Provisioner,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	adminCode string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:       users,
		provisioner: provisioner,
		tokens:      tokens,
		passwords:   passwords,
		adminCode:   adminCode,
		logger:      logger,
	}
}

// RegisterInput is the untrusted registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AdminCode       string // optional escalation code
}

// FieldErrors maps form field names to user-facing validation messages.
// The registration page shows them inline next to each field.
type FieldErrors map[string]string

// Register validates the input, creates the account, and provisions its
// profile and settings.
//
// VALIDATION IS ALL-CHECKS, NOT FAIL-FAST:
// Every check runs and every failure lands in the returned FieldErrors, so
// the user fixes the whole form in one round trip instead of playing
// error whack-a-mole. A non-empty FieldErrors comes back with a nil error —
// bad input isn't a system failure.
//
// ADMIN ESCALATION:
// If an admin code was submitted AND a code is configured AND they match
// (constant-time compare), the new account gets both role flags. An
// unconfigured (empty) secret can never match anything — the configured
// check runs first, so there is no empty==empty backdoor. Nothing about the
// outcome is logged or revealed in the response.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, FieldErrors, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	fieldErrs := FieldErrors{}

	if username == "" {
		fieldErrs["username"] = "Username is required."
	} else {
		taken, err := s.users.UsernameTaken(ctx, username, "")
		if err != nil {
			return nil, nil, fmt.Errorf("service/account: checking username: %w", err)
		}
		if taken {
			fieldErrs["username"] = "Username already exists!"
		}
	}

	if email == "" {
		fieldErrs["email"] = "Email is required."
	} else {
		taken, err := s.users.EmailTaken(ctx, email, "")
		if err != nil {
			return nil, nil, fmt.Errorf("service/account: checking email: %w", err)
		}
		if taken {
			fieldErrs["email"] = "Email already in use!"
		}
	}

	if msg := validatePassword(in.Password, in.ConfirmPassword); msg != "" {
		fieldErrs["password"] = msg
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	elevated := s.matchAdminCode(in.AdminCode)

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      elevated,
		IsSuperuser:  elevated,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Covers the check-then-insert race: a concurrent registration with
		// the same username/email loses here on the UNIQUE constraint.
		return nil, nil, fmt.Errorf("service/account: creating user %q: %w", username, err)
	}

	// Provisioning is synchronous and part of registration: when Register
	// returns, the profile and settings rows exist.
	if err := s.provisioner.Provision(ctx, user.ID); err != nil {
		return nil, nil, err
	}

	s.logger.Info("account registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil, nil
}

// validatePassword returns the first applicable message, or "" when the
// password passes. Policy: matches confirmation, at least 8 characters, at
// least one letter and one digit.
func validatePassword(password, confirm string) string {
	if password != confirm {
		return "Passwords do not match!"
	}
	if len(password) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "Password must contain at least one letter and one number."
	}

	return ""
}

// matchAdminCode reports whether the submitted code grants elevation.
//
// subtle.ConstantTimeCompare takes time proportional to the length, not to
// how many leading bytes match, so an attacker can't recover the secret one
// byte at a time from response timing. The s.adminCode != "" guard means an
// unset secret disables escalation entirely.
func (s *AccountService) matchAdminCode(submitted string) bool {
	return s.adminCode != "" &&
		subtle.ConstantTimeCompare([]byte(submitted), []byte(s.adminCode)) == 1
}

// AuthResult bundles the user record and the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login authenticates a username/password pair and issues a session token.
//
// Both "no such user" and "wrong password" return ErrUnauthorized with the
// same message — the login page must not reveal which half was wrong.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials!")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials!")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the account for the given internal ID. Used by the
// /api/me handler after the middleware validates the session.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/account: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}
