//go:build wireinject

package server

import (
	"github.com/google/wire"

	"github.com/eslsoft/islamic-sources/internal/adapter/auth"
	"github.com/eslsoft/islamic-sources/internal/adapter/db"
	"github.com/eslsoft/islamic-sources/internal/adapter/media/youtube"
	adaptertransport "github.com/eslsoft/islamic-sources/internal/adapter/transport"
	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/usecase"
)

// InitializeServer sets up the full HTTP server with all dependencies wired.
func InitializeServer() (*Server, func(), error) {
	wire.Build(
		NewConfig,
		NewLogger,
		NewTracing,
		NewDatabase,
		NewRedisClient,
		NewCourseCache,
		NewProgressLimiter,
		wire.Bind(new(core.Authenticator), new(*auth.Verifier)),
		NewAuthenticator,
		wire.Bind(new(core.ThumbnailExtractor), new(youtube.Extractor)),
		NewThumbnailExtractor,
		wire.Bind(new(core.CourseRepository), new(*db.CourseRepository)),
		db.NewCourseRepository,
		wire.Bind(new(core.CategoryRepository), new(*db.CategoryRepository)),
		db.NewCategoryRepository,
		wire.Bind(new(core.CurriculumRepository), new(*db.CurriculumRepository)),
		db.NewCurriculumRepository,
		wire.Bind(new(core.ProgressRepository), new(*db.ProgressRepository)),
		db.NewProgressRepository,
		wire.Bind(new(core.CourseService), new(*usecase.CourseService)),
		usecase.NewCourseService,
		wire.Bind(new(core.CurriculumService), new(*usecase.CurriculumService)),
		usecase.NewCurriculumService,
		wire.Bind(new(core.ProgressService), new(*usecase.ProgressService)),
		usecase.NewProgressService,
		adaptertransport.NewCourseHandler,
		adaptertransport.NewCurriculumHandler,
		adaptertransport.NewProgressHandler,
		NewHTTPHandler,
		NewServer,
	)
	return nil, nil, nil
}
