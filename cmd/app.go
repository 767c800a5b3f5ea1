package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/config"
	"github.com/Dosada05/house-tournament/db"
	"github.com/Dosada05/house-tournament/metrics"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/services"
	"github.com/Dosada05/house-tournament/storage"
)

// application связывает репозитории и сервисы для всех команд CLI.
type application struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	houses      services.HouseService
	teams       services.TeamService
	tables      services.TableService
	matches     services.MatchService
	fixtures    services.FixtureService
	housePoints services.HousePointsService
	standings   services.StandingsService
	dashboard   services.DashboardService
	reports     services.ReportService
	tournament  services.TournamentService
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// openApplication загружает конфигурацию, подключается к базе и собирает сервисы.
// newPublisher может быть nil для команд без WebSocket.
func openApplication(ctx context.Context, newPublisher func(*slog.Logger) services.EventPublisher) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("tournament_date", cfg.TournamentDate),
		slog.String("timezone", cfg.Location.String()),
	)

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	app := &application{cfg: cfg, logger: logger, db: dbConn, metrics: metrics.New()}
	var publisher services.EventPublisher
	if newPublisher != nil {
		publisher = newPublisher(logger)
	}
	if err := app.wire(ctx, publisher); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return app, nil
}

func (a *application) wire(ctx context.Context, publisher services.EventPublisher) error {
	cfg, logger := a.cfg, a.logger

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		u, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return err
		}
		uploader = u
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("report archiving disabled: R2 is not configured")
	}

	tx := repositories.NewPostgresTxManager(a.db, logger)
	houseRepo := repositories.NewPostgresHouseRepository(a.db)
	teamRepo := repositories.NewPostgresTeamRepository(a.db)
	tableRepo := repositories.NewPostgresTableRepository(a.db)
	teamTableRepo := repositories.NewPostgresTeamTableRepository(a.db)
	matchRepo := repositories.NewPostgresMatchRepository(a.db)
	spiritRepo := repositories.NewPostgresSpiritRepository(a.db)
	pointsRepo := repositories.NewPostgresHousePointsRepository(a.db)

	clock := func() time.Time { return time.Now().In(cfg.Location) }

	a.housePoints = services.NewHousePointsService(tx, houseRepo, teamRepo, matchRepo, spiritRepo, pointsRepo, publisher, a.metrics, logger)
	a.houses = services.NewHouseService(houseRepo, logger)
	a.teams = services.NewTeamService(tx, teamRepo, houseRepo, tableRepo, teamTableRepo, logger)
	a.tables = services.NewTableService(tableRepo, publisher, logger)
	a.matches = services.NewMatchService(tx, matchRepo, teamRepo, houseRepo, tableRepo, a.housePoints, publisher, a.metrics, logger, clock, cfg.TournamentDate)
	a.fixtures = services.NewFixtureService(tx, teamRepo, teamTableRepo, matchRepo, brackets.NewRoundRobinGenerator(), a.housePoints, publisher, a.metrics, logger, cfg.TournamentDate)
	a.standings = services.NewStandingsService(houseRepo, teamRepo, matchRepo)
	a.dashboard = services.NewDashboardService(houseRepo, teamRepo, tableRepo, matchRepo, spiritRepo, cfg.TournamentDate)
	a.reports = services.NewReportService(a.housePoints, a.standings, a.matches, tableRepo, uploader, logger, cfg.TournamentDate)
	a.tournament = services.NewTournamentService(tx, houseRepo, tableRepo, matchRepo, spiritRepo, pointsRepo, publisher, logger)
	logger.Info("services initialized")
	return nil
}

func (a *application) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	a.logger.Info("database connection closed")
}
