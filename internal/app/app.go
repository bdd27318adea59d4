package app

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"village-admin-go/internal/auth"
	"village-admin-go/internal/config"
	"village-admin-go/internal/db"
	mutationdomain "village-admin-go/internal/domain/mutation"
	residentdomain "village-admin-go/internal/domain/resident"
	userdomain "village-admin-go/internal/domain/user"
	"village-admin-go/internal/metrics"
	mutationrepo "village-admin-go/internal/repository/postgres/mutation"
	residentrepo "village-admin-go/internal/repository/postgres/resident"
	userrepo "village-admin-go/internal/repository/postgres/user"
	"village-admin-go/internal/storage/files"
	"village-admin-go/internal/transport/httpserver"
	"village-admin-go/internal/transport/httpserver/handler"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
	fileshandler "village-admin-go/internal/transport/httpserver/handler/files"
	mutationshandler "village-admin-go/internal/transport/httpserver/handler/mutations"
	residentshandler "village-admin-go/internal/transport/httpserver/handler/residents"
	"village-admin-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn, log); err != nil {
			_ = db.Close(dbConn)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("app: initializing router")
	router, err := NewHandler(cfg, dbConn, log)
	if err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// NewHandler wires repositories, services and handlers over an open database.
func NewHandler(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (http.Handler, error) {
	store, err := files.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, log)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	tokens := auth.NewTokenService(cfg.Auth)

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), tokens)
	residentService := residentdomain.NewService(residentrepo.NewPostgres(dbConn), store)
	mutationService := mutationdomain.NewService(mutationrepo.NewPostgres(dbConn))

	handlers := handler.New(
		commonhandler.New(userService, log, cfg.Debug),
		residentshandler.New(residentService, store, m, log, cfg.Debug),
		mutationshandler.New(mutationService, m, log, cfg.Debug),
		fileshandler.New(store, log, cfg.Debug),
	)

	return httpserver.NewRouter(cfg, handlers, tokens, m, log), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	return db.Close(a.db)
}
