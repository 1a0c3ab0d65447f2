// internal/api/swaps/handlers.go
//
// Swap requests let a team ask for another team's open field time. Requests
// stay pending until the offering team accepts or declines, or until the
// slot's game date passes.
package swaps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agsasoftball/fieldtime/internal/api/apiutil"
	appdb "github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/db/store"
	"github.com/agsasoftball/fieldtime/internal/email"
	"github.com/agsasoftball/fieldtime/internal/ratelimit"
)

const swapQueryTimeout = 10 * time.Second

var (
	database   *appdb.DB
	limiter    *ratelimit.Limiter
	sender     email.EmailSender
	senderAddr string
	trustProxy bool
)

// InitHandlers must be called during server startup before handling requests.
// The sender may be nil when swap emails are disabled; senderAddress
// optionally overrides the configured from-address for swap notifications.
func InitHandlers(db *appdb.DB, l *ratelimit.Limiter, s email.EmailSender, senderAddress string, proxyTrusted bool) {
	if db == nil {
		return
	}
	database = db
	limiter = l
	sender = s
	senderAddr = senderAddress
	trustProxy = proxyTrusted
}

type swapCreateRequest struct {
	RequestingTeamID int64  `json:"requestingTeamId"`
	Message          string `json:"message"`
}

// POST /api/v1/slots/{id}/swaps
func HandleSwapCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slotID, err := apiutil.IDFromRequest(r, "id")
	if err != nil {
		http.Error(w, "Invalid slot ID", http.StatusBadRequest)
		return
	}

	var req swapCreateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RequestingTeamID <= 0 {
		http.Error(w, apiutil.FieldError{Field: "requestingTeamId", Reason: "is required"}.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), swapQueryTimeout)
	defer cancel()

	slot, err := database.Queries.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Slot not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("slot_id", slotID).Msg("Failed to fetch slot")
		http.Error(w, "Failed to create swap request", http.StatusInternalServerError)
		return
	}
	if slot.Status != store.SlotStatusOpen {
		http.Error(w, "Slot is not open", http.StatusConflict)
		return
	}
	if !slot.OfferingTeamID.Valid {
		http.Error(w, "Slot has no offering team", http.StatusConflict)
		return
	}
	if slot.OfferingTeamID.Int64 == req.RequestingTeamID {
		http.Error(w, "Team cannot request its own slot", http.StatusConflict)
		return
	}

	requesting, err := database.Queries.GetTeam(ctx, req.RequestingTeamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Requesting team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", req.RequestingTeamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to create swap request", http.StatusInternalServerError)
		return
	}
	if requesting.Division != slot.Division {
		http.Error(w, "Requesting team is not in the slot's division", http.StatusConflict)
		return
	}

	clientIP := ratelimit.GetClientIP(r, trustProxy)
	if limiter != nil {
		check := limiter.CheckSubmit(requesting.Code, clientIP)
		if !check.Allowed {
			ratelimit.LogRateLimitExceeded(requesting.Code, clientIP, check.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(check.RetryAfter.Seconds())+1))
			http.Error(w, "Too many swap requests", http.StatusTooManyRequests)
			return
		}
	}

	swap, err := database.Queries.CreateSwapRequest(ctx, store.CreateSwapRequestParams{
		SlotID:           slotID,
		RequestingTeamID: req.RequestingTeamID,
		OfferingTeamID:   slot.OfferingTeamID.Int64,
		Message:          apiutil.ToNullString(req.Message),
	})
	if err != nil {
		logger.Error().Err(err).Int64("slot_id", slotID).Msg("Failed to create swap request")
		http.Error(w, "Failed to create swap request", http.StatusInternalServerError)
		return
	}

	if limiter != nil {
		limiter.RecordSubmit(requesting.Code, clientIP)
	}

	if sender != nil {
		message := email.BuildSwapOfferEmail(email.SwapOfferDetails{
			Division:       slot.Division,
			RequestingTeam: requesting.Name,
			Date:           slot.GameDate,
			TimeRange:      fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime),
			FieldKey:       slot.FieldKey,
			Note:           req.Message,
		})
		message.From = senderAddr
		email.NotifyTeam(ctx, database.Queries, sender, slot.OfferingTeamID.Int64, message, logger)
	}

	logger.Info().
		Int64("swap_id", swap.ID).
		Int64("slot_id", slotID).
		Int64("requesting_team_id", req.RequestingTeamID).
		Msg("Swap request created")

	if err := apiutil.WriteJSON(w, http.StatusCreated, swap); err != nil {
		logger.Error().Err(err).Int64("swap_id", swap.ID).Msg("Failed to write swap response")
	}
}

// POST /api/v1/swaps/{id}/accept
func HandleSwapAccept(w http.ResponseWriter, r *http.Request) {
	resolveSwap(w, r, true)
}

// POST /api/v1/swaps/{id}/decline
func HandleSwapDecline(w http.ResponseWriter, r *http.Request) {
	resolveSwap(w, r, false)
}

func resolveSwap(w http.ResponseWriter, r *http.Request, accept bool) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	swapID, err := apiutil.IDFromRequest(r, "id")
	if err != nil {
		http.Error(w, "Invalid swap ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), swapQueryTimeout)
	defer cancel()

	status := store.SwapStatusDeclined
	if accept {
		status = store.SwapStatusAccepted
	}

	var resolved store.SwapRequest
	var slot store.Slot
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		resolved, err = tx.Queries.ResolveSwapRequest(ctx, store.ResolveSwapRequestParams{
			ID:         swapID,
			Status:     status,
			ResolvedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		slot, err = tx.Queries.GetSlot(ctx, resolved.SlotID)
		if err != nil {
			return fmt.Errorf("fetch slot: %w", err)
		}
		if !accept {
			return nil
		}

		// The slot changes hands. Competing pending requests lose.
		if _, err := tx.Queries.UpdateSlotOfferingTeam(ctx, store.UpdateSlotOfferingTeamParams{
			ID:             resolved.SlotID,
			OfferingTeamID: sql.NullInt64{Int64: resolved.RequestingTeamID, Valid: true},
		}); err != nil {
			return fmt.Errorf("transfer slot: %w", err)
		}
		others, err := tx.Queries.ListPendingSwapRequestsBySlot(ctx, resolved.SlotID)
		if err != nil {
			return fmt.Errorf("list competing requests: %w", err)
		}
		for _, other := range others {
			if _, err := tx.Queries.ResolveSwapRequest(ctx, store.ResolveSwapRequestParams{
				ID:         other.ID,
				Status:     store.SwapStatusDeclined,
				ResolvedAt: time.Now().UTC(),
			}); err != nil {
				return fmt.Errorf("decline competing request %d: %w", other.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Swap request not found or already resolved", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("swap_id", swapID).Msg("Failed to resolve swap request")
		http.Error(w, "Failed to resolve swap request", http.StatusInternalServerError)
		return
	}

	if sender != nil {
		offering, err := database.Queries.GetTeam(ctx, resolved.OfferingTeamID)
		offeringName := ""
		if err == nil {
			offeringName = offering.Name
		}
		message := email.BuildSwapResolvedEmail(email.SwapResolvedDetails{
			Division:     slot.Division,
			OfferingTeam: offeringName,
			Date:         slot.GameDate,
			TimeRange:    fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime),
			FieldKey:     slot.FieldKey,
			Accepted:     accept,
		})
		message.From = senderAddr
		email.NotifyTeam(ctx, database.Queries, sender, resolved.RequestingTeamID, message, logger)
	}

	logger.Info().
		Int64("swap_id", swapID).
		Str("status", status).
		Msg("Swap request resolved")

	if err := apiutil.WriteJSON(w, http.StatusOK, resolved); err != nil {
		logger.Error().Err(err).Int64("swap_id", swapID).Msg("Failed to write swap response")
	}
}

// GET /api/v1/swaps/pending
func HandleSwapsPending(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), swapQueryTimeout)
	defer cancel()

	requests, err := database.Queries.ListPendingSwapRequests(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list pending swap requests")
		http.Error(w, "Failed to list pending swap requests", http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = []store.SwapRequest{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests}); err != nil {
		logger.Error().Err(err).Msg("Failed to write pending swaps response")
	}
}
