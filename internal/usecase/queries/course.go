package queries

import (
	"context"

	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCourseNotFound = errs.New("course not found")

type CourseListParams struct {
	Department string
	Status     string
}

type CourseQueries interface {
	List(ctx context.Context, params CourseListParams) ([]*CourseListItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CourseView, error)
}

type CourseReadStore interface {
	List(ctx context.Context, department, status string) ([]*CourseListItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CourseView, error)
}

type courseQueriesImpl struct {
	readStore CourseReadStore
}

func NewCourseQueries(readStore CourseReadStore) CourseQueries {
	return &courseQueriesImpl{readStore: readStore}
}

func (q *courseQueriesImpl) List(ctx context.Context, params CourseListParams) ([]*CourseListItem, error) {
	return q.readStore.List(ctx, params.Department, params.Status)
}

func (q *courseQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CourseView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	return view, nil
}
