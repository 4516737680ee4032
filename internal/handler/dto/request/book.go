package request

import (
	"campus-library/internal/domain/book"
	"campus-library/internal/usecase/queries"
)

type CreateBookRequest struct {
	Title           string   `json:"title" binding:"required"`
	ISBN            string   `json:"isbn" binding:"required"`
	Publisher       string   `json:"publisher" binding:"required"`
	PublicationYear int32    `json:"publication_year" binding:"required,min=1400"`
	Authors         []string `json:"authors" binding:"required,min=1"`
	Genres          []string `json:"genres"`
	Copies          int      `json:"copies" binding:"min=0,max=100"`
}

func (r *CreateBookRequest) ToDomain() (*book.Book, error) {
	return book.NewBook(r.Title, r.ISBN, r.Publisher, r.PublicationYear, r.Authors, r.Genres)
}

type ListBooksRequest struct {
	Search    string `form:"search"`
	Genre     string `form:"genre"`
	Author    string `form:"author"`
	Available *bool  `form:"available"`
	SortBy    string `form:"sort_by"`
	SortDir   string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page      int32  `form:"page"`
	Limit     int32  `form:"limit"`
}

func (r *ListBooksRequest) ToParams() queries.BookSearchParams {
	return queries.BookSearchParams{
		Search:    r.Search,
		Genre:     r.Genre,
		Author:    r.Author,
		Available: r.Available,
		SortBy:    r.SortBy,
		SortDesc:  r.SortDir == "desc",
		Page:      r.Page,
		Limit:     r.Limit,
	}
}
