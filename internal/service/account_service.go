package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civicworks/waste-complaints/internal/auth"
	"github.com/civicworks/waste-complaints/internal/config"
	"github.com/civicworks/waste-complaints/internal/domain"
	"github.com/civicworks/waste-complaints/internal/repository"
	"github.com/civicworks/waste-complaints/internal/session"
	apperrors "github.com/civicworks/waste-complaints/pkg/util"
)

// AccountService coordinates signup and signin flows against the account
// store and the session registry.
type AccountService struct {
	accounts   repository.AccountRepository
	sessions   session.Store
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, accounts repository.AccountRepository, sessions session.Store) *AccountService {
	return &AccountService{
		accounts:   accounts,
		sessions:   sessions,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new account with an empty complaint list. A duplicate
// email is a conflict, never a silent overwrite.
func (s *AccountService) Signup(ctx context.Context, email, credential string, regionCode int, role domain.Role) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || credential == "" {
		return nil, apperrors.NewValidationError("email and credential required", nil)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("account already registered", map[string]any{"email": email})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashCredential(credential, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Email:          email,
		CredentialHash: hash,
		RegionCode:     regionCode,
		Role:           role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// Check-then-insert can lose to a concurrent signup for the same
		// email; the store's unique-key violation is still a conflict.
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, apperrors.NewConflict("account already registered", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// SignIn authenticates the email/credential/role triple and opens a session.
// Any mismatch, including an unknown email or wrong role, reports the same
// invalid-credentials outcome. No session is opened on failure.
func (s *AccountService) SignIn(ctx context.Context, email, credential string, role domain.Role) (*domain.Identity, string, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", apperrors.MapError(err)
	}
	if account.Role != role {
		return nil, "", apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.CompareCredential(account.CredentialHash, credential); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid credentials")
	}

	identity := domain.Identity{
		Email:      account.Email,
		Role:       account.Role,
		RegionCode: account.RegionCode,
	}
	token, err := s.sessions.Open(ctx, identity)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	return &identity, token, nil
}

// SignOut destroys the session. Unknown tokens are ignored.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Close(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
