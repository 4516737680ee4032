package book

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle      = errors.New("book title cannot be empty")
	ErrEmptyISBN       = errors.New("isbn cannot be empty")
	ErrInvalidYear     = errors.New("invalid publication year")
	ErrNoCopies        = errors.New("book must have at least one copy")
	ErrNoAuthors       = errors.New("book must have at least one author")
	ErrInvalidCopyStatus = errors.New("invalid copy status")
)

// Catalog data is leaf data; the entity only guards basic shape on intake.
type Book struct {
	id              uuid.UUID
	title           string
	isbn            string
	publisher       string
	publicationYear int32
	authors         []string
	genres          []string
	createdAt       time.Time
}

func NewBook(title, isbn, publisher string, publicationYear int32, authors, genres []string) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrEmptyISBN
	}

	if publicationYear < 1000 || publicationYear > int32(time.Now().Year())+1 {
		return nil, ErrInvalidYear
	}

	if len(authors) == 0 {
		return nil, ErrNoAuthors
	}

	return &Book{
		id:              uuid.New(),
		title:           title,
		isbn:            isbn,
		publisher:       strings.TrimSpace(publisher),
		publicationYear: publicationYear,
		authors:         normalizeNames(authors),
		genres:          normalizeNames(genres),
	}, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (b *Book) ID() uuid.UUID          { return b.id }
func (b *Book) Title() string          { return b.title }
func (b *Book) ISBN() string           { return b.isbn }
func (b *Book) Publisher() string      { return b.publisher }
func (b *Book) PublicationYear() int32 { return b.publicationYear }
func (b *Book) Authors() []string      { return b.authors }
func (b *Book) Genres() []string       { return b.genres }
func (b *Book) CreatedAt() time.Time   { return b.createdAt }

type Copy struct {
	id        uuid.UUID
	bookID    uuid.UUID
	status    CopyStatus
	condition Condition
	location  *string
}

func NewCopy(bookID uuid.UUID) *Copy {
	return &Copy{
		id:        uuid.New(),
		bookID:    bookID,
		status:    CopyAvailable,
		condition: ConditionNew,
	}
}

func ReconstructCopy(id, bookID uuid.UUID, status CopyStatus, condition Condition, location *string) *Copy {
	return &Copy{
		id:        id,
		bookID:    bookID,
		status:    status,
		condition: condition,
		location:  location,
	}
}

func (c *Copy) IsAvailable() bool {
	return c.status == CopyAvailable
}

func (c *Copy) ID() uuid.UUID        { return c.id }
func (c *Copy) BookID() uuid.UUID    { return c.bookID }
func (c *Copy) Status() CopyStatus   { return c.status }
func (c *Copy) Condition() Condition { return c.condition }
func (c *Copy) Location() *string    { return c.location }
