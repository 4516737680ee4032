package commands

import (
	"context"

	"campus-library/internal/domain/course"
	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCourseNotFound     = errs.New("course not found")
	ErrSectionNotFound    = errs.New("course section not found")
	ErrDuplicateCode      = errs.New("course with this code already exists")
	ErrInvalidCourseInput = errs.New("invalid course input")
	ErrProfessorNotFound  = errs.New("professor not found")
	ErrStudentNotFound    = errs.New("student not found")
	ErrSectionFull         = errs.New("course section is full")
	ErrAlreadyEnrolled     = errs.New("student already enrolled in this section")
	ErrEnrollmentNotFound  = errs.New("enrollment not found")
	ErrEnrollmentNotActive = errs.New("enrollment is not active")
)

type CourseCommands interface {
	CreateCourse(ctx context.Context, req reqdto.CreateCourseRequest) (uuid.UUID, error)
	CreateSection(ctx context.Context, courseID uuid.UUID, req reqdto.CreateSectionRequest) (uuid.UUID, error)
	EnrollStudent(ctx context.Context, sectionID, studentID uuid.UUID) (uuid.UUID, error)
	DropEnrollment(ctx context.Context, enrollmentID uuid.UUID) error
}

type courseCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCourseCommands(uow shared.UnitOfWork) CourseCommands {
	return &courseCommandsImpl{uow: uow}
}

func (c *courseCommandsImpl) CreateCourse(ctx context.Context, req reqdto.CreateCourseRequest) (uuid.UUID, error) {
	crs, err := req.ToDomain()
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidCourseInput)
	}

	var courseID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		courseID, err = tx.Courses().CreateCourse(ctx, tx.DB(), crs)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return courseID, nil
}

func (c *courseCommandsImpl) CreateSection(ctx context.Context, courseID uuid.UUID, req reqdto.CreateSectionRequest) (uuid.UUID, error) {
	section, err := course.NewSection(courseID, req.ProfessorID, course.Semester(req.Semester), req.Year, req.MaxStudents)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidCourseInput)
	}

	var sectionID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sectionID, err = tx.Courses().CreateSection(ctx, tx.DB(), section)
		if err != nil {
			// FK order matches the insert: course first, then professor.
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrCourseNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return sectionID, nil
}

// EnrollStudent seats a student in a section. The seat claim and the
// enrollment row commit together, so a full section can never oversell.
func (c *courseCommandsImpl) EnrollStudent(ctx context.Context, sectionID, studentID uuid.UUID) (uuid.UUID, error) {
	var enrollmentID uuid.UUID

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().SectionByID(ctx, sectionID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSectionNotFound
			}
			return err
		}

		claimed, err := tx.Courses().ClaimSeat(ctx, tx.DB(), sectionID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrSectionFull
		}

		enrollmentID, err = tx.Courses().CreateEnrollment(ctx, tx.DB(), sectionID, studentID)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyEnrolled
			}
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrStudentNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return enrollmentID, nil
}

// DropEnrollment removes a student from a section. The status flip and the
// seat release commit together, mirroring the claim on the enroll side.
func (c *courseCommandsImpl) DropEnrollment(ctx context.Context, enrollmentID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().EnrollmentByID(ctx, enrollmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		if snap.Status != string(course.EnrollmentEnrolled) {
			return ErrEnrollmentNotActive
		}

		if err := tx.Courses().UpdateEnrollmentStatus(ctx, tx.DB(), enrollmentID, course.EnrollmentDropped); err != nil {
			return err
		}
		return tx.Courses().ReleaseSeat(ctx, tx.DB(), snap.SectionID)
	})
}
