package components

import (
	"campus-library/internal/infra/db"
	"campus-library/internal/infra/readstore"
	"campus-library/internal/infra/uow"
	"campus-library/internal/usecase/queries"
	"campus-library/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	uow.NewPostgresUoW,
	NewCommandReads,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewBookReadStore,
			fx.As(new(queries.BookReadStore)),
		),
		fx.Annotate(
			readstore.NewMemberReadStore,
			fx.As(new(queries.MemberReadStore)),
		),
		fx.Annotate(
			readstore.NewLoanReadStore,
			fx.As(new(queries.LoanReadStore)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewCourseReadStore,
			fx.As(new(queries.CourseReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewCommandReads(u shared.UnitOfWork) shared.CommandReads {
	return u.CommandReads()
}
