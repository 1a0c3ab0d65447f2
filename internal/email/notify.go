package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agsasoftball/fieldtime/internal/db/store"
)

const notifyTimeout = 5 * time.Second

// NotifyTeam sends a message to a team's contact email asynchronously. Teams
// without a contact email are skipped quietly.
func NotifyTeam(ctx context.Context, q *store.Queries, client EmailSender, teamID int64, message Message, logger *zerolog.Logger) {
	if client == nil || q == nil {
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}

	team, err := q.GetTeam(ctx, teamID)
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team for notification email")
		}
		return
	}
	if !team.ContactEmail.Valid {
		return
	}
	recipient := strings.TrimSpace(team.ContactEmail.String)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, notifyTimeout)
		defer cancel()
		var err error
		if message.From != "" {
			err = client.SendFrom(sendCtx, recipient, message.Subject, message.Body, message.From)
		} else {
			err = client.Send(sendCtx, recipient, message.Subject, message.Body)
		}
		if err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send notification email")
		}
	}()
}
