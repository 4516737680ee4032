package readstore

import (
	"context"
	"strings"

	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"
	"campus-library/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CourseReadStore struct {
	db db.DBTX
}

func NewCourseReadStore(dbtx db.DBTX) *CourseReadStore {
	return &CourseReadStore{db: dbtx}
}

func (r *CourseReadStore) List(ctx context.Context, department, status string) ([]*queries.CourseListItem, error) {
	query := `
		SELECT id, code, title, description, department, credits, status, created_at
		FROM courses`

	var (
		conds []string
		args  []any
	)
	if department != "" {
		args = append(args, department)
		conds = append(conds, "department = $1")
	}
	if status != "" {
		args = append(args, status)
		if len(args) == 1 {
			conds = append(conds, "status = $1")
		} else {
			conds = append(conds, "status = $2")
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list courses", err)
	}
	defer rows.Close()

	var items []*queries.CourseListItem
	for rows.Next() {
		item, err := scanCourseListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read course rows", err)
	}

	return items, nil
}

func scanCourseListItem(row rowScanner) (*queries.CourseListItem, error) {
	var (
		item        queries.CourseListItem
		description pgtype.Text
		createdAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&item.ID, &item.Code, &item.Title, &description,
		&item.Department, &item.Credits, &item.Status, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("course not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan course row", err)
	}

	item.Description = pgconv.StringPtrFromPgtype(description)
	item.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	return &item, nil
}

func (r *CourseReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CourseView, error) {
	const query = `
		SELECT id, code, title, description, department, credits, status, created_at
		FROM courses
		WHERE id = $1`

	item, err := scanCourseListItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	sections, totalEnrolled, err := r.findSections(ctx, id)
	if err != nil {
		return nil, err
	}

	return &queries.CourseView{
		CourseListItem: *item,
		Sections:       sections,
		TotalEnrolled:  totalEnrolled,
	}, nil
}

func (r *CourseReadStore) findSections(ctx context.Context, courseID uuid.UUID) ([]*queries.SectionView, int64, error) {
	const query = `
		SELECT s.id, s.professor_id, u.name, s.semester, s.year,
			s.max_students, s.current_students, s.status
		FROM course_sections s
		JOIN users u ON u.id = s.professor_id
		WHERE s.course_id = $1
		ORDER BY s.year DESC, s.semester ASC, s.id ASC`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to find course sections", err)
	}
	defer rows.Close()

	var (
		sections      []*queries.SectionView
		totalEnrolled int64
	)
	for rows.Next() {
		var sv queries.SectionView
		if err := rows.Scan(
			&sv.ID, &sv.ProfessorID, &sv.ProfessorName, &sv.Semester, &sv.Year,
			&sv.MaxStudents, &sv.CurrentStudents, &sv.Status,
		); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan course section row", err)
		}
		totalEnrolled += int64(sv.CurrentStudents)
		sections = append(sections, &sv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read course section rows", err)
	}

	return sections, totalEnrolled, nil
}
