package components

import (
	"campus-library/internal/pkg/clock"
	"campus-library/internal/usecase"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookCommands,
		commands.NewMemberCommands,
		commands.NewLoanCommands,
		commands.NewReservationCommands,
		commands.NewCourseCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookQueries,
		queries.NewMemberQueries,
		queries.NewLoanQueries,
		queries.NewReservationQueries,
		queries.NewUserQueries,
		queries.NewCourseQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
