package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type invitationsRepo struct {
	q querier
}

const invitationColumns = `id, email, name, role, unit_id, token_hash, expires_at, used_at, created_by, created_at, updated_at`

func scanInvitation(scan func(dest ...any) error) (domain.Invitation, error) {
	var inv domain.Invitation
	var role string
	var unitID sql.NullString
	var usedAt sql.NullTime
	err := scan(&inv.ID, &inv.Email, &inv.Name, &role, &unitID, &inv.TokenHash,
		&inv.ExpiresAt, &usedAt, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.UnitID = mapNullStringPtr(unitID)
	inv.UsedAt = mapNullTimePtr(usedAt)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, email, name, role, unit_id, token_hash, expires_at, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.Name, inv.Role.String(), mapOptionalString(inv.UnitID),
		inv.TokenHash, inv.ExpiresAt, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row.Scan)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	return scanInvitation(row.Scan)
}

func (r *invitationsRepo) RefreshInvitationToken(ctx context.Context, id, newHash string, expiresAt time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET token_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND used_at IS NULL`,
		newHash, expiresAt, time.Now().UTC(), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, id string, usedAt time.Time) (bool, error) {
	// The used_at IS NULL guard is what makes concurrent accepts lose cleanly:
	// only one transaction sees an affected row.
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET used_at = ?, updated_at = ? WHERE id = ? AND used_at IS NULL`,
		usedAt, usedAt, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	return err
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM invitations WHERE used_at IS NULL AND expires_at < ?`, time.Now().UTC())
	return err
}
