package request

import (
	"campus-library/internal/domain/course"

	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	Code        string  `json:"code" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Department  string  `json:"department" binding:"required"`
	Credits     int32   `json:"credits" binding:"required,min=1,max=12"`
}

func (r *CreateCourseRequest) ToDomain() (*course.Course, error) {
	return course.NewCourse(r.Code, r.Title, r.Description, r.Department, r.Credits)
}

type CreateSectionRequest struct {
	ProfessorID uuid.UUID `json:"professor_id" binding:"required"`
	Semester    string    `json:"semester" binding:"required,oneof=Fall Spring Summer"`
	Year        int32     `json:"year" binding:"required,min=2000,max=2100"`
	MaxStudents int32     `json:"max_students" binding:"required,min=1,max=500"`
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
}

type ListCoursesRequest struct {
	Department string `form:"department"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
}
