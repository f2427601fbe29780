// Routing engine.
//
// For every inbound message the engine runs the admission pipeline in strict
// order: identify the sender, consult the block list, consult the cooldown
// guard, append to the ledger, dispatch per current mode, acknowledge.
// Blocked and cooled-down senders are dropped silently so moderation is not
// observable from the outside. Dispatch failures after acceptance are logged
// and counted, never surfaced to the sender.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/suggestbot/go-suggest-backend/internal/archive"
	"github.com/suggestbot/go-suggest-backend/internal/chart"
	"github.com/suggestbot/go-suggest-backend/internal/directory"
	"github.com/suggestbot/go-suggest-backend/internal/domain"
	"github.com/suggestbot/go-suggest-backend/internal/guard"
	"github.com/suggestbot/go-suggest-backend/internal/ledger"
	"github.com/suggestbot/go-suggest-backend/internal/repo"
	"github.com/suggestbot/go-suggest-backend/internal/stats"
	"github.com/suggestbot/go-suggest-backend/internal/transport"
)

// Message is one decoded inbound message from the transport shell.
type Message struct {
	Sender domain.Identity
	Text   string
}

// Engine orchestrates moderation and routing. All mutable state lives in the
// injected components; the engine itself carries no locks.
type Engine struct {
	// AdminID is the single privileged operator identity.
	AdminID int64

	Directory *directory.Directory
	Cooldown  *guard.Cooldown
	Blocklist *guard.Blocklist
	Ledger    *ledger.Ledger
	Stats     *stats.Aggregator
	Modes     *ModeController

	Sender     transport.Sender
	ArchiveLog *archive.Log
	// DB is the durable archive store; nil disables row persistence.
	DB    *gorm.DB
	Chart chart.Renderer

	// Stop terminates the process; invoked by /shutdown after the
	// acknowledgment has been sent.
	Stop func()

	Log zerolog.Logger

	// Now is the clock seam; defaults to time.Now.
	Now func() time.Time
}

// New wires an Engine around fresh moderation state, using cooldown as the
// quiet period and initial as the starting dispatch mode.
func New(adminID int64, cooldown time.Duration, initial Mode, sender transport.Sender, log *archive.Log, db *gorm.DB, renderer chart.Renderer, lg zerolog.Logger) *Engine {
	led := ledger.New()
	return &Engine{
		AdminID:    adminID,
		Directory:  directory.New(),
		Cooldown:   guard.NewCooldown(cooldown),
		Blocklist:  guard.NewBlocklist(),
		Ledger:     led,
		Stats:      &stats.Aggregator{Ledger: led},
		Modes:      NewModeController(initial),
		Sender:     sender,
		ArchiveLog: log,
		DB:         db,
		Chart:      renderer,
		Log:        lg,
		Now:        time.Now,
	}
}

// Handle routes one inbound message. Recognized commands go to the command
// surface; everything else, including unrecognized "/..." text, is treated
// as a submission.
func (e *Engine) Handle(ctx context.Context, msg Message) {
	if strings.HasPrefix(msg.Text, "/") {
		fields := strings.Fields(msg.Text)
		name := fields[0]
		args := fields[1:]
		if e.dispatchCommand(ctx, msg.Sender, name, args) {
			return
		}
	}
	e.handleSubmission(ctx, msg)
}

// handleSubmission runs the admission pipeline for a non-command message.
func (e *Engine) handleSubmission(ctx context.Context, msg Message) {
	sender := msg.Sender
	handle := sender.HandleOrSynthetic()
	now := e.Now()

	// 1. Identify: the directory learns the handle on every sighting so that
	// /block works even for users who never pass moderation.
	e.Directory.RecordSighting(handle, sender.NumericID)

	// 2. Block check: silent drop, no ledger entry, no reply.
	if e.Blocklist.IsBlocked(sender.NumericID) {
		droppedTotal.WithLabelValues("blocked").Inc()
		e.Log.Debug().Int64("user_id", sender.NumericID).Msg("dropped submission from blocked user")
		return
	}

	// 3. Cooldown check: silent drop as well, so spammers get no liveness echo.
	if !e.Cooldown.TryAdmit(sender.NumericID, now) {
		droppedTotal.WithLabelValues("cooldown").Inc()
		e.Log.Debug().Int64("user_id", sender.NumericID).Msg("dropped submission inside cooldown")
		return
	}

	// 4. Accept.
	e.Ledger.Append(now, sender.NumericID, handle, msg.Text)
	acceptedTotal.Inc()

	// 5. Dispatch per current mode.
	switch e.Modes.Get() {
	case ModeRelay:
		text := fmt.Sprintf("From %s (id=%d):\n%s", sender.DisplayLabel(), sender.NumericID, msg.Text)
		if err := e.Sender.SendText(ctx, e.AdminID, text); err != nil {
			dispatchFailures.WithLabelValues("relay").Inc()
			e.Log.Error().Err(err).Int64("user_id", sender.NumericID).Msg("failed to relay suggestion")
		} else {
			e.Log.Info().Str("username", handle).Int64("user_id", sender.NumericID).Msg("relayed suggestion to admin")
		}
	case ModeArchive:
		if err := e.ArchiveLog.Append(now, sender.NumericID, handle, msg.Text); err != nil {
			dispatchFailures.WithLabelValues("archive_log").Inc()
			e.Log.Error().Err(err).Int64("user_id", sender.NumericID).Msg("failed to append archive log")
		}
		if e.DB != nil {
			if _, err := repo.CreateSuggestion(ctx, e.DB, sender.NumericID, handle, msg.Text, now); err != nil {
				dispatchFailures.WithLabelValues("archive_store").Inc()
				e.Log.Error().Err(err).Int64("user_id", sender.NumericID).Msg("failed to persist archive row")
			}
		}
		e.Log.Info().Str("username", handle).Int64("user_id", sender.NumericID).Msg("archived suggestion")
	}

	// 6. Acknowledge. The submission is already in the ledger, so the ack is
	// sent regardless of dispatch outcome.
	e.reply(ctx, sender.NumericID, "Your suggestion has been received. Thank you!")
}

// reply sends text to a chat, logging delivery failures.
func (e *Engine) reply(ctx context.Context, chatID int64, text string) {
	if err := e.Sender.SendText(ctx, chatID, text); err != nil {
		dispatchFailures.WithLabelValues("ack").Inc()
		e.Log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
	}
}
