package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/config"
	"github.com/Dosada05/house-tournament/db"
	_ "github.com/Dosada05/house-tournament/docs"
	"github.com/Dosada05/house-tournament/handlers"
	"github.com/Dosada05/house-tournament/routes"
	"github.com/Dosada05/house-tournament/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "house-tournament",
		Usage: "турнир домов по настольному теннису",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			resetCommand(),
			recalculateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "запустить HTTP API и WebSocket",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "применить схему перед запуском", Value: true},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var hub *brackets.Hub
			app, err := openApplication(ctx, func(logger *slog.Logger) services.EventPublisher {
				hub = brackets.NewHub(logger)
				return hub
			})
			if err != nil {
				return err
			}
			defer app.close()
			logger := app.logger

			if c.Bool("migrate") {
				if err := db.Migrate(ctx, app.db); err != nil {
					return err
				}
				logger.Info("database schema applied")
			}

			go hub.Run(ctx)
			logger.Info("WebSocket Hub started")

			router := chi.NewRouter()
			routes.SetupRoutes(router, routes.Handlers{
				House:       handlers.NewHouseHandler(app.houses),
				Team:        handlers.NewTeamHandler(app.teams),
				Table:       handlers.NewTableHandler(app.tables),
				Match:       handlers.NewMatchHandler(app.matches, app.fixtures),
				Standings:   handlers.NewStandingsHandler(app.standings),
				HousePoints: handlers.NewHousePointsHandler(app.housePoints, app.cfg.TournamentDate),
				Dashboard:   handlers.NewDashboardHandler(app.dashboard),
				Report:      handlers.NewReportHandler(app.reports, app.cfg.TournamentDate),
				WebSocket:   handlers.NewWebSocketHandler(hub, app.cfg.AllowedOrigins, logger),
			}, routes.Options{
				AllowedOrigins: app.cfg.AllowedOrigins,
				Logger:         logger,
				Metrics:        app.metrics,
			})
			logger.Info("routes configured")

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", app.cfg.ServerPort),
				Handler:      router,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
				ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting server", slog.String("address", server.Addr))
				serverErrors <- server.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				logger.Info("server stopped gracefully")
			case <-ctx.Done():
				logger.Info("shutdown signal received")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
				if err := server.Shutdown(shutdownCtx); err != nil {
					if closeErr := server.Close(); closeErr != nil {
						logger.Error("failed to force close server", slog.Any("error", closeErr))
					}
					return fmt.Errorf("graceful shutdown failed: %w", err)
				}
				logger.Info("server shutdown complete")
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "применить схему базы данных",
		Action: func(c *cli.Context) error {
			app, err := openApplication(c.Context, nil)
			if err != nil {
				return err
			}
			defer app.close()
			if err := db.Migrate(c.Context, app.db); err != nil {
				return err
			}
			app.logger.Info("database schema applied")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "загрузить дома и столы из YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "seed.yaml", Usage: "путь к файлу справочников"},
		},
		Action: func(c *cli.Context) error {
			seed, err := config.LoadSeed(c.String("file"))
			if err != nil {
				return err
			}
			app, err := openApplication(c.Context, nil)
			if err != nil {
				return err
			}
			defer app.close()

			result, err := app.tournament.Seed(c.Context, seed)
			if err != nil {
				return err
			}
			app.logger.Info("seed applied",
				slog.Int("houses", len(result.Houses)),
				slog.Int("tables", len(result.Tables)),
			)
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "удалить матчи, оценки духа и очки домов",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "подтвердить удаление"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return errors.New("reset deletes all results; rerun with --yes")
			}
			app, err := openApplication(c.Context, nil)
			if err != nil {
				return err
			}
			defer app.close()

			result, err := app.tournament.Reset(c.Context)
			if err != nil {
				return err
			}
			app.logger.Info("tournament reset", slog.Int64("matches_deleted", result.MatchesDeleted))
			return nil
		},
	}
}

func recalculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalculate",
		Usage: "пересчитать очки домов и вывести их в JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, по умолчанию TOURNAMENT_DATE"},
		},
		Action: func(c *cli.Context) error {
			app, err := openApplication(c.Context, nil)
			if err != nil {
				return err
			}
			defer app.close()

			date := c.String("date")
			if date == "" {
				date = app.cfg.TournamentDate
			}
			points, err := app.housePoints.RecalculateHousePoints(c.Context, date)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(points)
		},
	}
}
