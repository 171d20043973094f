package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/validate"
)

const msgDuplicateUsername = "A user with that username already exists."

type AccountService struct {
	store  AccountStore
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

func NewAccountService(store AccountStore, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{store: store, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register creates an unprivileged, active account whose email is its
// username, then issues its first token pair.
func (s *AccountService) Register(ctx context.Context, username, password string) (domain.TokenPair, error) {
	if fe := validate.Account(username, password); fe != nil {
		return domain.TokenPair{}, fe
	}
	username = strings.TrimSpace(username)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	acct := &domain.Account{
		Username:     username,
		Email:        username,
		PasswordHash: hash,
		IsStaff:      false,
		IsSuperuser:  false,
		IsActive:     true,
		DateJoined:   s.now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return domain.TokenPair{}, domain.FieldErrors{validate.FieldUsername: {msgDuplicateUsername}}
		}
		return domain.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(acct.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue tokens for account %d: %w", acct.ID, err)
	}
	return pair, nil
}

// Login checks credentials and issues a token pair.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	if fe := validate.Credentials(username, password); fe != nil {
		return domain.TokenPair{}, fe
	}

	acct, err := s.store.AccountByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.TokenPair{}, err
	}
	if !acct.IsActive || !s.hasher.Compare(acct.PasswordHash, password) {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	return s.tokens.IssuePair(acct.ID)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AccountService) Refresh(_ context.Context, refreshToken string) (string, error) {
	if fe := validate.RefreshToken(refreshToken); fe != nil {
		return "", fe
	}
	return s.tokens.Refresh(strings.TrimSpace(refreshToken))
}
