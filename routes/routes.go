package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/house-tournament/handlers"
	"github.com/Dosada05/house-tournament/metrics"
	"github.com/Dosada05/house-tournament/middleware"
)

// Handlers - набор HTTP-обработчиков, подключаемых к маршрутизатору.
type Handlers struct {
	House       *handlers.HouseHandler
	Team        *handlers.TeamHandler
	Table       *handlers.TableHandler
	Match       *handlers.MatchHandler
	Standings   *handlers.StandingsHandler
	HousePoints *handlers.HousePointsHandler
	Dashboard   *handlers.DashboardHandler
	Report      *handlers.ReportHandler
	WebSocket   *handlers.WebSocketHandler
}

type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// WebSocket живет дольше таймаута запроса, поэтому вне группы /api.
	router.Get("/ws/tournament", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/houses", func(r chi.Router) {
			r.Get("/", h.House.ListHouses)
			r.Post("/", h.House.CreateHouse)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Post("/", h.Team.CreateTeam)
			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", h.Team.GetTeam)
				r.Put("/", h.Team.UpdateTeam)
				r.Delete("/", h.Team.DeleteTeam)
				r.Put("/tables/{category}", h.Team.SetTablePreference)
				r.Delete("/tables/{category}", h.Team.DeleteTablePreference)
			})
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.Table.ListTables)
			r.Post("/", h.Table.CreateTable)
			r.Patch("/{tableID}", h.Table.UpdateTable)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.ListMatches)
			r.Post("/generate", h.Match.GenerateFixtures)
			r.Post("/auto-assign-tables", h.Match.AutoAssignTables)
			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", h.Match.GetMatch)
				r.Put("/games/{gameNumber}", h.Match.RecordGameScore)
				r.Post("/start", h.Match.StartMatch)
				r.Post("/finalize", h.Match.FinalizeMatch)
				r.Put("/table", h.Match.AssignTable)
			})
		})

		r.Get("/standings", h.Standings.GetStandings)

		r.Get("/house-points", h.HousePoints.GetHousePoints)
		r.Post("/house-points/recalculate", h.HousePoints.RecalculateHousePoints)
		r.Get("/spirit-marks", h.HousePoints.ListSpiritMarks)
		r.Put("/spirit-marks/{houseID}", h.HousePoints.AssessSpirit)

		r.Get("/dashboard", h.Dashboard.Stats)

		r.Get("/reports/tournament.xlsx", h.Report.DownloadReport)
		r.Post("/reports/archive", h.Report.ArchiveReport)
	})
}
