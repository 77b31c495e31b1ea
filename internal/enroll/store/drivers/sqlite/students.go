package sqlite

import (
	"context"
	"database/sql"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type studentsRepo struct {
	q querier
}

const studentColumns = `id, name, dharma_name, date_of_birth, gender, unit_id, class_id, notes, created_at, updated_at`

func scanStudent(scan func(dest ...any) error) (domain.Student, error) {
	var st domain.Student
	var dharmaName, classID, notes sql.NullString
	err := scan(&st.ID, &st.Name, &dharmaName, &st.DateOfBirth, &st.Gender,
		&st.UnitID, &classID, &notes, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	st.DharmaName = mapNullStringPtr(dharmaName)
	st.ClassID = mapNullStringPtr(classID)
	st.Notes = mapNullStringPtr(notes)
	return st, nil
}

func (r *studentsRepo) CreateStudent(ctx context.Context, st domain.Student) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO students (id, name, dharma_name, date_of_birth, gender, unit_id, class_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, mapOptionalString(st.DharmaName), st.DateOfBirth, st.Gender,
		st.UnitID, mapOptionalString(st.ClassID), mapOptionalString(st.Notes), st.CreatedAt, st.UpdatedAt,
	)
	return err
}

func (r *studentsRepo) GetStudentByID(ctx context.Context, id string) (domain.Student, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	return scanStudent(row.Scan)
}

type linksRepo struct {
	q querier
}

func (r *linksRepo) CreateParentStudentLink(ctx context.Context, link domain.ParentStudentLink) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO parent_student_links (parent_id, student_id, relation, created_at)
		VALUES (?, ?, ?, ?)`,
		link.ParentID, link.StudentID, link.Relation, link.CreatedAt,
	)
	return err
}

func (r *linksRepo) ListStudentsForParent(ctx context.Context, parentID string) ([]domain.Student, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT s.id, s.name, s.dharma_name, s.date_of_birth, s.gender, s.unit_id, s.class_id, s.notes, s.created_at, s.updated_at
		FROM students s
		JOIN parent_student_links l ON l.student_id = s.id
		WHERE l.parent_id = ?
		ORDER BY s.created_at`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Student
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *linksRepo) DeleteLinksForParent(ctx context.Context, parentID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM parent_student_links WHERE parent_id = ?`, parentID)
	return err
}
