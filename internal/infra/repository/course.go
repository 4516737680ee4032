package repository

import (
	"context"

	"campus-library/internal/domain/course"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CourseRepository struct{}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, tx db.DBTX, c *course.Course) (uuid.UUID, error) {
	const query = `
		INSERT INTO courses (id, code, title, description, department, credits, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		c.ID(),
		c.Code(),
		c.Title(),
		pgconv.StringPtrToPgtype(c.Description()),
		c.Department(),
		c.Credits(),
		string(c.Status()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create course", err)
	}

	return id, nil
}

func (r *CourseRepository) CreateSection(ctx context.Context, tx db.DBTX, s *course.Section) (uuid.UUID, error) {
	const query = `
		INSERT INTO course_sections (id, course_id, professor_id, semester, year, max_students, current_students, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		s.ID(),
		s.CourseID(),
		s.ProfessorID(),
		string(s.Semester()),
		s.Year(),
		s.MaxStudents(),
		s.CurrentStudents(),
		string(s.SectionStatus()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create course section", err)
	}

	return id, nil
}

func (r *CourseRepository) CreateEnrollment(ctx context.Context, tx db.DBTX, sectionID, studentID uuid.UUID) (uuid.UUID, error) {
	const query = `
		INSERT INTO student_enrollments (id, student_id, section_id, status)
		VALUES ($1, $2, $3, 'enrolled')
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, uuid.New(), studentID, sectionID).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create enrollment", err)
	}

	return id, nil
}

// ClaimSeat takes a seat only while capacity remains, so two students racing
// for the last seat cannot both enroll.
func (r *CourseRepository) ClaimSeat(ctx context.Context, tx db.DBTX, sectionID uuid.UUID) (bool, error) {
	const query = `
		UPDATE course_sections
		SET current_students = current_students + 1, updated_at = now()
		WHERE id = $1 AND status IN ('upcoming', 'active') AND current_students < max_students`

	tag, err := tx.Exec(ctx, query, sectionID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim section seat", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *CourseRepository) ReleaseSeat(ctx context.Context, tx db.DBTX, sectionID uuid.UUID) error {
	const query = `
		UPDATE course_sections
		SET current_students = GREATEST(current_students - 1, 0), updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, sectionID)
	if err != nil {
		return infra.WrapRepoErr("failed to release section seat", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("course section not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *CourseRepository) UpdateEnrollmentStatus(ctx context.Context, tx db.DBTX, enrollmentID uuid.UUID, status course.EnrollmentStatus) error {
	const query = `
		UPDATE student_enrollments
		SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, enrollmentID, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update enrollment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("enrollment not found", nil, infra.KindNotFound)
	}

	return nil
}
