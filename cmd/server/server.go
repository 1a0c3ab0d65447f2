// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/agsasoftball/fieldtime/internal/api"
	"github.com/agsasoftball/fieldtime/internal/api/fieldavail"
	"github.com/agsasoftball/fieldtime/internal/api/schedules"
	"github.com/agsasoftball/fieldtime/internal/api/slots"
	"github.com/agsasoftball/fieldtime/internal/api/swaps"
	"github.com/agsasoftball/fieldtime/internal/api/teams"
	"github.com/agsasoftball/fieldtime/internal/config"
	"github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/email"
	"github.com/agsasoftball/fieldtime/internal/ratelimit"
)

func newServer(cfg *config.Config, database *db.DB, limiter *ratelimit.Limiter, emailClient email.EmailSender) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	teams.InitHandlers(database)
	fieldavail.InitHandlers(database)
	slots.InitHandlers(database, cfg.Schedule)
	schedules.InitHandlers(database, cfg.Schedule)
	swaps.InitHandlers(database, limiter, emailClient, cfg.Email.SwapSender, cfg.Features.TrustProxy)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Fields and availability
	mux.HandleFunc("GET /api/v1/fields", fieldavail.HandleFieldsList)
	mux.HandleFunc("POST /api/v1/fields", fieldavail.HandleFieldCreate)
	mux.HandleFunc("GET /api/v1/divisions/{division}/availability", fieldavail.HandleRulesList)
	mux.HandleFunc("POST /api/v1/divisions/{division}/availability", fieldavail.HandleRuleCreate)
	mux.HandleFunc("DELETE /api/v1/availability/{id}", fieldavail.HandleRuleDelete)
	mux.HandleFunc("POST /api/v1/availability/exceptions", fieldavail.HandleExceptionCreate)
	mux.HandleFunc("POST /api/v1/blackouts", fieldavail.HandleBlackoutCreate)

	// Teams
	mux.HandleFunc("GET /api/v1/divisions/{division}/teams", teams.HandleTeamsList)
	mux.HandleFunc("POST /api/v1/divisions/{division}/teams", teams.HandleTeamCreate)
	mux.HandleFunc("GET /api/v1/teams/{id}", teams.HandleTeamGet)
	mux.HandleFunc("PUT /api/v1/teams/{id}", teams.HandleTeamUpdate)
	mux.HandleFunc("DELETE /api/v1/teams/{id}", teams.HandleTeamDelete)

	// Slots
	mux.HandleFunc("GET /api/v1/divisions/{division}/slots", slots.HandleSlotsList)
	mux.HandleFunc("POST /api/v1/divisions/{division}/slots", slots.HandleSlotCreate)
	mux.HandleFunc("POST /api/v1/divisions/{division}/slots/expand", slots.HandleSlotsExpand)
	mux.HandleFunc("GET /api/v1/divisions/{division}/slots/export", slots.HandleSlotsExport)
	mux.HandleFunc("DELETE /api/v1/slots/{id}", slots.HandleSlotDelete)
	mux.HandleFunc("POST /api/import/slots", slots.HandleSlotsImport)

	// Schedules
	mux.HandleFunc("POST /api/v1/divisions/{division}/schedule/preview", schedules.HandleSchedulePreview)
	mux.HandleFunc("POST /api/v1/divisions/{division}/schedule/generate", schedules.HandleScheduleGenerate)
	mux.HandleFunc("GET /api/v1/divisions/{division}/schedule", schedules.HandleScheduleList)
	mux.HandleFunc("GET /api/v1/divisions/{division}/schedule/validate", schedules.HandleScheduleValidate)
	mux.HandleFunc("POST /api/v1/divisions/{division}/schedule/feasibility", schedules.HandleFeasibility)
	mux.HandleFunc("GET /api/v1/divisions/{division}/schedule/export", schedules.HandleScheduleExport)

	// Swaps
	mux.HandleFunc("POST /api/v1/slots/{id}/swaps", swaps.HandleSwapCreate)
	mux.HandleFunc("POST /api/v1/swaps/{id}/accept", swaps.HandleSwapAccept)
	mux.HandleFunc("POST /api/v1/swaps/{id}/decline", swaps.HandleSwapDecline)
	mux.HandleFunc("GET /api/v1/swaps/pending", swaps.HandleSwapsPending)
}
