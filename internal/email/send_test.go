package email

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agsasoftball/fieldtime/internal/db/store"
	"github.com/agsasoftball/fieldtime/internal/testutil"
)

type fakeEmailSender struct {
	sendCalls   int32
	sendStarted chan struct{}
	recipient   atomic.Value
	subject     atomic.Value
	from        atomic.Value
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{
		sendStarted: make(chan struct{}, 1),
	}
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	atomic.AddInt32(&f.sendCalls, 1)
	f.recipient.Store(recipient)
	f.subject.Store(subject)
	select {
	case f.sendStarted <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeEmailSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	f.from.Store(sender)
	return f.Send(ctx, recipient, subject, body)
}

func TestNotifyTeamSendsToContactEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division:     "10U",
		Code:         "TIGERS",
		Name:         "Tigers",
		ContactEmail: sql.NullString{String: "coach@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	sender := newFakeEmailSender()
	logger := zerolog.Nop()
	NotifyTeam(ctx, database.Queries, sender, team.ID, Message{Subject: "Test", Body: "Body"}, &logger)

	select {
	case <-sender.sendStarted:
	case <-time.After(time.Second):
		t.Fatal("expected send to start")
	}

	if got := sender.recipient.Load(); got != "coach@example.com" {
		t.Errorf("recipient = %v, want coach@example.com", got)
	}
}

func TestNotifyTeamUsesSenderOverride(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division:     "12U",
		Code:         "FOXES",
		Name:         "Foxes",
		ContactEmail: sql.NullString{String: "foxes@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	sender := newFakeEmailSender()
	logger := zerolog.Nop()
	NotifyTeam(ctx, database.Queries, sender, team.ID, Message{
		Subject: "Test",
		Body:    "Body",
		From:    "swaps@agsasoftball.org",
	}, &logger)

	select {
	case <-sender.sendStarted:
	case <-time.After(time.Second):
		t.Fatal("expected send to start")
	}

	if got := sender.from.Load(); got != "swaps@agsasoftball.org" {
		t.Errorf("from = %v, want swaps@agsasoftball.org", got)
	}
	if got := sender.recipient.Load(); got != "foxes@example.com" {
		t.Errorf("recipient = %v, want foxes@example.com", got)
	}
}

func TestNotifyTeamSkipsTeamWithoutContactEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division: "10U",
		Code:     "HORNETS",
		Name:     "Hornets",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	sender := newFakeEmailSender()
	logger := zerolog.Nop()
	NotifyTeam(ctx, database.Queries, sender, team.ID, Message{Subject: "Test", Body: "Body"}, &logger)

	select {
	case <-sender.sendStarted:
		t.Fatal("expected no send for team without contact email")
	case <-time.After(100 * time.Millisecond):
	}
	if calls := atomic.LoadInt32(&sender.sendCalls); calls != 0 {
		t.Errorf("sendCalls = %d, want 0", calls)
	}
}

func TestNotifyTeamSkipsEmptyMessage(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division:     "10U",
		Code:         "BEARS",
		Name:         "Bears",
		ContactEmail: sql.NullString{String: "bears@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	sender := newFakeEmailSender()
	NotifyTeam(ctx, database.Queries, sender, team.ID, Message{}, nil)

	select {
	case <-sender.sendStarted:
		t.Fatal("expected no send for empty message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifyTeamSurvivesCanceledRequestContext(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division:     "10U",
		Code:         "OWLS",
		Name:         "Owls",
		ContactEmail: sql.NullString{String: "owls@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	sender := newFakeEmailSender()
	logger := zerolog.Nop()
	NotifyTeam(reqCtx, database.Queries, sender, team.ID, Message{Subject: "Test", Body: "Body"}, &logger)
	cancel()

	// The async send detaches from the request context, so it still runs.
	select {
	case <-sender.sendStarted:
	case <-time.After(time.Second):
		t.Fatal("expected send despite canceled request context")
	}
}
