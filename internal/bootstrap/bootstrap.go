package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursescope/internal/app/controllers"
	appMigrations "github.com/yigit/coursescope/internal/app/migrations"
	"github.com/yigit/coursescope/internal/app/models"
	appRepos "github.com/yigit/coursescope/internal/app/repositories"
	appRoutes "github.com/yigit/coursescope/internal/app/routes"
	appServices "github.com/yigit/coursescope/internal/app/services"
	"github.com/yigit/coursescope/internal/config"
	"github.com/yigit/coursescope/internal/db"
	appMiddleware "github.com/yigit/coursescope/internal/middleware"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/coursescope/internal/pkg/auth"
	"github.com/yigit/coursescope/internal/pkg/cache"
	"github.com/yigit/coursescope/internal/pkg/helpers"
	"github.com/yigit/coursescope/internal/pkg/logger"
	"github.com/yigit/coursescope/internal/pkg/metrics"
	"github.com/yigit/coursescope/internal/pkg/searchindex"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Metrics        *metrics.Metrics
	SemesterCache  *cache.SemesterCache // nil unless Redis is enabled
	ElasticIndex   *searchindex.ElasticIndex
	Logger         zerolog.Logger

	redisClient *redis.Client
}

// Close releases clients opened by BuildDependencies
func (d *Dependencies) Close() {
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, logger.WithComponent(lgr, "postgres"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	return database, nil
}

// RunMigrations applies the bundled SQL migrations.
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files(), logger.WithComponent(lgr, "migrator"))
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// NewJWTService builds the token verifier from configuration.
func NewJWTService(cfg *config.Config) (*pkgAuth.JWTService, error) {
	accessExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access token expiration: %w", err)
	}
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessExp,
		TokenIssuer:    cfg.JWT.Issuer,
	}), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:  lgr,
		Repos:   appRepos.NewRepositories(database.Pool),
		Metrics: metrics.New(),
	}

	var err error
	deps.JWTService, err = NewJWTService(cfg)
	if err != nil {
		return nil, err
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	var index appServices.QueryIndex
	switch cfg.Search.Backend {
	case config.SearchBackendPostgres:
		index = deps.Repos.SearchRepository
	case config.SearchBackendElasticsearch:
		client, err := searchindex.NewElasticClient(cfg)
		if err != nil {
			return nil, err
		}
		deps.ElasticIndex = searchindex.NewElasticIndex(client, cfg.Elasticsearch.Index, logger.WithComponent(lgr, "elasticsearch"))
		index = deps.ElasticIndex
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownSearchBackend, cfg.Search.Backend)
	}
	lgr.Info().Str("backend", cfg.Search.Backend).Msg("Search index selected")

	var gradeStore appServices.GradeStore = deps.Repos.GradeRepository
	if cfg.Redis.Enabled {
		deps.redisClient, err = cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ttl := helpers.ParseDuration(cfg.Redis.SemesterTTL, 10*time.Minute)
		deps.SemesterCache = cache.NewSemesterCache(gradeStore, deps.redisClient, ttl, logger.WithComponent(lgr, "semester_cache"))
		gradeStore = deps.SemesterCache
		lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Semester cache enabled")
	}

	deps.Services = appServices.Services{
		Search:      appServices.NewSearchService(index, lgr),
		GradeLookup: appServices.NewGradeLookupService(gradeStore, nil, lgr),
		Profile:     appServices.NewProfileService(deps.Repos.UserRepository, lgr),
	}

	deps.Controllers = appRoutes.Controllers{
		Search:  appControllers.NewSearchController(deps.Services.Search, deps.Metrics),
		Grade:   appControllers.NewGradeController(deps.Services.GradeLookup, deps.Metrics),
		Profile: appControllers.NewProfileController(deps.Services.Profile),
	}

	return deps, nil
}

type semesterInvalidator interface {
	Invalidate(ctx context.Context) error
}

type catalogIndexer interface {
	Reindex(ctx context.Context, courses []*models.Course, professors []*models.Professor) (int, error)
}

type courseLister interface {
	GetAll(ctx context.Context) ([]*models.Course, error)
}

type professorLister interface {
	GetAll(ctx context.Context) ([]*models.Professor, error)
}

// RefreshDerivedData brings the semester cache and the Elasticsearch index
// back in line with the database after catalog or grade data was loaded.
func (d *Dependencies) RefreshDerivedData(ctx context.Context) error {
	var semesters semesterInvalidator
	if d.SemesterCache != nil {
		semesters = d.SemesterCache
	}
	var indexer catalogIndexer
	if d.ElasticIndex != nil {
		indexer = d.ElasticIndex
	}
	return refreshDerivedData(ctx, semesters, indexer, d.Repos.CourseRepository, d.Repos.ProfessorRepository, d.Logger)
}

// refreshDerivedData skips whichever of semesters and indexer is nil
func refreshDerivedData(
	ctx context.Context,
	semesters semesterInvalidator,
	indexer catalogIndexer,
	courses courseLister,
	professors professorLister,
	lgr zerolog.Logger,
) error {
	if semesters != nil {
		if err := semesters.Invalidate(ctx); err != nil {
			return fmt.Errorf("failed to invalidate semester cache: %w", err)
		}
		lgr.Info().Msg("Semester cache invalidated")
	}

	if indexer == nil {
		return nil
	}

	allCourses, err := courses.GetAll(ctx)
	if err != nil {
		return err
	}
	allProfessors, err := professors.GetAll(ctx)
	if err != nil {
		return err
	}
	if _, err := indexer.Reindex(ctx, allCourses, allProfessors); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	return nil
}

// SetupRouter creates the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.WithComponent(lgr, "http")))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Metrics)
	return router
}
