package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

type passkeysRepo struct {
	q querier
}

const passkeyColumns = `credential_id, account_id, transports, backed_up, device_label,
	attestation_object, client_data_hash, created_at, updated_at`

func (r *passkeysRepo) UpsertPasskey(ctx context.Context, p domain.Passkey) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account_passkeys (`+passkeyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (credential_id) DO UPDATE SET
			account_id         = excluded.account_id,
			transports         = excluded.transports,
			backed_up          = excluded.backed_up,
			device_label       = excluded.device_label,
			attestation_object = excluded.attestation_object,
			client_data_hash   = excluded.client_data_hash,
			updated_at         = excluded.updated_at`,
		p.CredentialID,
		p.AccountID,
		strings.Join(p.Transports, " "),
		p.BackedUp,
		p.DeviceLabel,
		p.AttestationObject,
		p.ClientDataHash,
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	)
	return err
}

func (r *passkeysRepo) GetPasskey(ctx context.Context, accountID, credentialID string) (domain.Passkey, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+passkeyColumns+` FROM account_passkeys WHERE account_id = ? AND credential_id = ?`,
		accountID, credentialID,
	)
	return scanPasskey(row)
}

func (r *passkeysRepo) ListPasskeys(ctx context.Context, accountID string) ([]domain.Passkey, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+passkeyColumns+` FROM account_passkeys WHERE account_id = ? ORDER BY created_at, credential_id`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Passkey
	for rows.Next() {
		p, err := scanPasskey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *passkeysRepo) DeletePasskey(ctx context.Context, accountID, credentialID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM account_passkeys WHERE account_id = ? AND credential_id = ?`,
		accountID, credentialID,
	)
	return err
}

func scanPasskey(row rowScanner) (domain.Passkey, error) {
	var (
		p                    domain.Passkey
		transports           string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&p.CredentialID,
		&p.AccountID,
		&transports,
		&p.BackedUp,
		&p.DeviceLabel,
		&p.AttestationObject,
		&p.ClientDataHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Passkey{}, mapNotFound(err)
	}
	p.Transports = splitAndFilter(transports)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
