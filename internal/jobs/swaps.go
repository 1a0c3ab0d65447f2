package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/email"
)

const swapJobTimeout = 2 * time.Minute

// RegisterSwapJobs registers the periodic swap request maintenance task. It
// expires pending requests whose game date has passed, then reminds offering
// teams about requests that have sat unanswered longer than reminderHours.
// senderAddress optionally overrides the configured from-address on
// reminders.
func RegisterSwapJobs(database *db.DB, emailClient email.EmailSender, senderAddress, cronExpr string, reminderHours int) error {
	if database == nil {
		return fmt.Errorf("swap jobs require database")
	}
	if reminderHours <= 0 {
		reminderHours = 48
	}

	jobName := "swap_request_maintenance"
	jobLogger := log.With().
		Str("component", "swap_request_maintenance_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), swapJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		now := time.Now().UTC()
		expired, err := database.Queries.ExpirePendingSwapRequestsBefore(ctx, now.Format("2006-01-02"), now)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to expire stale swap requests")
		} else if expired > 0 {
			jobLogger.Info().Int64("expired", expired).Msg("Expired stale swap requests")
		}

		if emailClient == nil {
			jobLogger.Debug().Msg("Swap reminder skipped: email client not configured")
			return
		}

		pending, err := database.Queries.ListPendingSwapRequests(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load pending swap requests")
			return
		}

		cutoff := now.Add(-time.Duration(reminderHours) * time.Hour)
		for _, request := range pending {
			if request.CreatedAt.After(cutoff) {
				continue
			}

			slot, err := database.Queries.GetSlot(ctx, request.SlotID)
			if err != nil {
				jobLogger.Error().Err(err).Int64("swap_id", request.ID).Msg("Failed to load slot for swap reminder")
				continue
			}
			requesting, err := database.Queries.GetTeam(ctx, request.RequestingTeamID)
			if err != nil {
				jobLogger.Error().Err(err).Int64("swap_id", request.ID).Msg("Failed to load requesting team for swap reminder")
				continue
			}

			reminder := email.BuildSwapReminderEmail(email.SwapReminderDetails{
				Division:       slot.Division,
				RequestingTeam: requesting.Name,
				Date:           slot.GameDate,
				TimeRange:      fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime),
				FieldKey:       slot.FieldKey,
				PendingHours:   int(now.Sub(request.CreatedAt).Hours()),
			})
			reminder.From = senderAddress
			email.NotifyTeam(ctx, database.Queries, emailClient, request.OfferingTeamID, reminder, &jobLogger)
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add swap maintenance job: %w", err)
	}

	jobLogger.Info().Msg("Swap maintenance job registered")
	return nil
}
