package course

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCode       = errors.New("course code cannot be empty")
	ErrEmptyTitle      = errors.New("course title cannot be empty")
	ErrEmptyDepartment = errors.New("department cannot be empty")
	ErrInvalidCredits  = errors.New("credits must be positive")
	ErrInvalidSemester = errors.New("invalid semester")
	ErrInvalidCapacity = errors.New("max students must be positive")
	ErrSectionFull     = errors.New("section is full")
)

type Course struct {
	id          uuid.UUID
	code        string
	title       string
	description *string
	department  string
	credits     int32
	status      Status
	createdAt   time.Time
}

func NewCourse(code, title string, description *string, department string, credits int32) (*Course, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, ErrEmptyDepartment
	}
	if credits < 1 {
		return nil, ErrInvalidCredits
	}

	return &Course{
		id:          uuid.New(),
		code:        code,
		title:       title,
		description: description,
		department:  department,
		credits:     credits,
		status:      StatusActive,
	}, nil
}

func (c *Course) ID() uuid.UUID        { return c.id }
func (c *Course) Code() string         { return c.code }
func (c *Course) Title() string        { return c.title }
func (c *Course) Description() *string { return c.description }
func (c *Course) Department() string   { return c.department }
func (c *Course) Credits() int32       { return c.credits }
func (c *Course) Status() Status       { return c.status }
func (c *Course) CreatedAt() time.Time { return c.createdAt }

type Section struct {
	id              uuid.UUID
	courseID        uuid.UUID
	professorID     uuid.UUID
	semester        Semester
	year            int32
	maxStudents     int32
	currentStudents int32
	status          SectionStatus
}

func NewSection(courseID, professorID uuid.UUID, semester Semester, year, maxStudents int32) (*Section, error) {
	if !semester.IsValid() {
		return nil, ErrInvalidSemester
	}
	if maxStudents < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Section{
		id:          uuid.New(),
		courseID:    courseID,
		professorID: professorID,
		semester:    semester,
		year:        year,
		maxStudents: maxStudents,
		status:      SectionUpcoming,
	}, nil
}

func ReconstructSection(id, courseID, professorID uuid.UUID, semester Semester, year, maxStudents, currentStudents int32, status SectionStatus) *Section {
	return &Section{
		id:              id,
		courseID:        courseID,
		professorID:     professorID,
		semester:        semester,
		year:            year,
		maxStudents:     maxStudents,
		currentStudents: currentStudents,
		status:          status,
	}
}

func (s *Section) HasCapacity() bool {
	return s.currentStudents < s.maxStudents
}

func (s *Section) ID() uuid.UUID          { return s.id }
func (s *Section) CourseID() uuid.UUID    { return s.courseID }
func (s *Section) ProfessorID() uuid.UUID { return s.professorID }
func (s *Section) Semester() Semester     { return s.semester }
func (s *Section) Year() int32            { return s.year }
func (s *Section) MaxStudents() int32     { return s.maxStudents }
func (s *Section) CurrentStudents() int32 { return s.currentStudents }
func (s *Section) SectionStatus() SectionStatus { return s.status }
