package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store"
)

// PasskeyService persists and manages WebAuthn credentials per account.
type PasskeyService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *PasskeyService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NormalizeDeviceLabel trims label, falls back to the default label when it
// is blank, and truncates it to MaxDeviceLabelLength characters.
func NormalizeDeviceLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.DefaultDeviceLabel
	}
	if utf8.RuneCountInString(label) <= domain.MaxDeviceLabelLength {
		return label
	}
	runes := []rune(label)
	return string(runes[:domain.MaxDeviceLabelLength])
}

// Upsert stores reg against accountID. Registering a credential id that
// already exists overwrites the previous row.
func (s *PasskeyService) Upsert(ctx context.Context, accountID string, reg domain.ParsedRegistration, label string) (domain.Passkey, error) {
	now := s.now()
	pk := domain.Passkey{
		CredentialID:      reg.CredentialID,
		AccountID:         accountID,
		Transports:        reg.Transports,
		DeviceLabel:       NormalizeDeviceLabel(label),
		AttestationObject: reg.AttestationObject,
		ClientDataHash:    reg.ClientDataJSON,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Store.Passkeys().UpsertPasskey(ctx, pk); err != nil {
		return domain.Passkey{}, fmt.Errorf("failed to store passkey: %w", err)
	}
	return pk, nil
}

func (s *PasskeyService) Find(ctx context.Context, accountID, credentialID string) (domain.Passkey, error) {
	pk, err := s.Store.Passkeys().GetPasskey(ctx, accountID, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Passkey{}, ErrPasskeyNotFound
	}
	if err != nil {
		return domain.Passkey{}, fmt.Errorf("failed to look up passkey: %w", err)
	}
	return pk, nil
}

func (s *PasskeyService) List(ctx context.Context, accountID string) ([]domain.Passkey, error) {
	list, err := s.Store.Passkeys().ListPasskeys(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list passkeys: %w", err)
	}
	return list, nil
}

func (s *PasskeyService) Remove(ctx context.Context, accountID, credentialID string) error {
	if err := s.Store.Passkeys().DeletePasskey(ctx, accountID, credentialID); err != nil {
		return fmt.Errorf("failed to delete passkey: %w", err)
	}
	return nil
}

// ListForUser lists the passkeys on userID's account.
func (s *PasskeyService) ListForUser(ctx context.Context, userID string) ([]domain.Passkey, error) {
	accountID, err := s.accountIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, accountID)
}

// RemoveForUser deletes one of userID's passkeys. Unknown credentials,
// credentials on other accounts and users without an account are no-ops.
func (s *PasskeyService) RemoveForUser(ctx context.Context, userID, credentialID string) error {
	accountID, err := s.accountIDForUser(ctx, userID)
	if errors.Is(err, ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.Remove(ctx, accountID, credentialID)
}

func (s *PasskeyService) accountIDForUser(ctx context.Context, userID string) (string, error) {
	a, err := s.Store.Accounts().GetAccountByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up account: %w", err)
	}
	return a.ID, nil
}
