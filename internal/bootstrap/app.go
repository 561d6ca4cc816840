package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/documents"
	"cv-backend/internal/extracted"
	"cv-backend/internal/ingest"
	"cv-backend/internal/parse"
	"cv-backend/internal/queue"
	"cv-backend/internal/shared/config"
	"cv-backend/internal/shared/server"
	"cv-backend/internal/shared/storage/db"
	"cv-backend/internal/shared/storage/object"
	localstore "cv-backend/internal/shared/storage/object/local"
	s3store "cv-backend/internal/shared/storage/object/s3"
	"cv-backend/internal/users"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo documents.DocumentsRepo
	ExtractedRepo extracted.Repo
	UsersRepo     users.Repo

	DocumentsService *documents.Service
	ExtractedService *extracted.Service
	UsersService     *users.Service
	IngestService    *ingest.Service

	// DocumentProcessor allows tests and the worker to override pipeline
	// processing.
	DocumentProcessor documents.Processor

	DocumentsHandler *documents.Handler
	ExtractedHandler *extracted.Handler
	UsersHandler     *users.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentHandler:  app.DocumentsHandler,
		ExtractedHandler: app.ExtractedHandler,
		UserHandler:      app.UsersHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.QueueURL, cfg.AWSRegion)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	var infoRepo extracted.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		infoRepo = &extracted.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		infoRepo = extracted.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	infoSvc := &extracted.Service{Repo: infoRepo, Docs: docRepo}
	userSvc := users.NewService(userRepo)

	ingestSvc := &ingest.Service{
		Docs:      docRepo,
		Store:     app.Store,
		Extracted: infoSvc,
		Users:     userSvc,
		Parser:    parse.New(parse.DefaultConfig()),
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		Queue:           app.Queue,
		Pipeline:        ingestSvc,
		Extractions:     infoSvc,
		StorageProvider: app.Config.ObjectStoreType,
	}

	app.DocumentsRepo = docRepo
	app.ExtractedRepo = infoRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.ExtractedService = infoSvc
	app.UsersService = userSvc
	app.IngestService = ingestSvc
	app.DocumentProcessor = ingestSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ExtractedHandler = extracted.NewHandler(infoSvc)
	app.UsersHandler = users.NewHandler(userSvc)
}
