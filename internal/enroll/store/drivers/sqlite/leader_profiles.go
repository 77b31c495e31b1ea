package sqlite

import (
	"context"
	"database/sql"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type leaderProfilesRepo struct {
	q querier
}

const leaderProfileColumns = `id, user_id, unit_id, name, year_of_birth, status, phone, address, created_at, updated_at`

func scanLeaderProfile(row *sql.Row) (domain.LeaderProfile, error) {
	var p domain.LeaderProfile
	var phone, address sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.UnitID, &p.Name, &p.YearOfBirth,
		&p.Status, &phone, &address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.LeaderProfile{}, mapNotFound(err)
	}
	p.Phone = mapNullStringPtr(phone)
	p.Address = mapNullStringPtr(address)
	return p, nil
}

func (r *leaderProfilesRepo) CreateLeaderProfile(ctx context.Context, p domain.LeaderProfile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO leader_profiles (id, user_id, unit_id, name, year_of_birth, status, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.UnitID, p.Name, p.YearOfBirth, p.Status,
		mapOptionalString(p.Phone), mapOptionalString(p.Address), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *leaderProfilesRepo) GetLeaderProfileByID(ctx context.Context, id string) (domain.LeaderProfile, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+leaderProfileColumns+` FROM leader_profiles WHERE id = ?`, id)
	return scanLeaderProfile(row)
}

func (r *leaderProfilesRepo) GetLeaderProfileByUserID(ctx context.Context, userID string) (domain.LeaderProfile, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+leaderProfileColumns+` FROM leader_profiles WHERE user_id = ?`, userID)
	return scanLeaderProfile(row)
}

func (r *leaderProfilesRepo) DeleteLeaderProfile(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM leader_profiles WHERE id = ?`, id)
	return err
}

func (r *leaderProfilesRepo) DeleteLeaderProfileForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM leader_profiles WHERE user_id = ?`, userID)
	return err
}
