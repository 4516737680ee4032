package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type BookListItem struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn"`
	Publisher       string    `json:"publisher"`
	PublicationYear int32     `json:"publication_year"`
	Authors         []string  `json:"authors"`
	Genres          []string  `json:"genres"`
	TotalCopies     int64     `json:"total_copies"`
	AvailableCopies int64     `json:"available_copies"`
	BorrowCount     int64     `json:"borrow_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookList struct {
	Items []*BookListItem `json:"items"`
	Total int64           `json:"total"`
	Page  int32           `json:"page"`
	Limit int32           `json:"limit"`
}

type CopyView struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	Condition string    `json:"condition"`
	Location  *string   `json:"location,omitempty"`
}

type LoanHistoryEntry struct {
	ID         uuid.UUID  `json:"id"`
	MemberName string     `json:"member_name"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

type BookView struct {
	BookListItem
	Copies      []*CopyView         `json:"copies"`
	RecentLoans []*LoanHistoryEntry `json:"recent_loans"`
}

type MemberView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	MaxLoans     int32     `json:"max_loans"`
	CurrentLoans int32     `json:"current_loans"`
	TotalFines   float64   `json:"total_fines"`
	CreatedAt    time.Time `json:"created_at"`
}

type MemberDetailView struct {
	MemberView
	Loans []*LoanListItem `json:"loans"`
}

type EligibilityView struct {
	MemberID uuid.UUID `json:"member_id"`
	Eligible bool      `json:"eligible"`
	Reason   *string   `json:"reason,omitempty"`
}

type LoanListItem struct {
	ID         uuid.UUID  `json:"id"`
	BookCopyID uuid.UUID  `json:"book_copy_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	MemberID   uuid.UUID  `json:"member_id"`
	MemberName string     `json:"member_name"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
	FineAmount float64    `json:"fine_amount"`
}

type LoanList struct {
	Items []*LoanListItem `json:"items"`
	Total int64           `json:"total"`
	Page  int32           `json:"page"`
	Limit int32           `json:"limit"`
}

type ReservationView struct {
	ID              uuid.UUID `json:"id"`
	BookID          uuid.UUID `json:"book_id"`
	BookTitle       string    `json:"book_title"`
	MemberID        uuid.UUID `json:"member_id"`
	MemberName      string    `json:"member_name"`
	ReservationDate time.Time `json:"reservation_date"`
	Status          string    `json:"status"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseListItem struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Department  string    `json:"department"`
	Credits     int32     `json:"credits"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type SectionView struct {
	ID              uuid.UUID `json:"id"`
	ProfessorID     uuid.UUID `json:"professor_id"`
	ProfessorName   string    `json:"professor_name"`
	Semester        string    `json:"semester"`
	Year            int32     `json:"year"`
	MaxStudents     int32     `json:"max_students"`
	CurrentStudents int32     `json:"current_students"`
	Status          string    `json:"status"`
}

type CourseView struct {
	CourseListItem
	Sections      []*SectionView `json:"sections"`
	TotalEnrolled int64          `json:"total_enrolled"`
}
