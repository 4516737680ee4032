package course

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

func (s Semester) IsValid() bool {
	switch s {
	case SemesterFall, SemesterSpring, SemesterSummer:
		return true
	default:
		return false
	}
}

type SectionStatus string

const (
	SectionUpcoming  SectionStatus = "upcoming"
	SectionActive    SectionStatus = "active"
	SectionCompleted SectionStatus = "completed"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentCompleted EnrollmentStatus = "completed"
)
