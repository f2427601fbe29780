// Operator command surface.
//
// Commands are matched case-sensitively by their first token. Every command
// except /start is gated on the single operator identity; non-operators get
// a fixed rejection and no state change. Outcomes like "not found in memory"
// or "is not blocked" are usage feedback, not errors.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/suggestbot/go-suggest-backend/internal/domain"
)

const greeting = "Hello! Send me your suggestion, and I'll handle it.\n" +
	"Admins can use: /mode, /shutdown, /block, /unblock, /blocked, /stats."

// dispatchCommand runs a recognized command and reports whether the name was
// recognized. Unrecognized names fall through to submission handling.
func (e *Engine) dispatchCommand(ctx context.Context, sender domain.Identity, name string, args []string) bool {
	switch name {
	case "/start":
		e.cmdStart(ctx, sender)
	case "/mode":
		e.cmdMode(ctx, sender, args)
	case "/block":
		e.cmdBlock(ctx, sender, args)
	case "/unblock":
		e.cmdUnblock(ctx, sender, args)
	case "/blocked":
		e.cmdBlocked(ctx, sender)
	case "/stats":
		e.cmdStats(ctx, sender)
	case "/shutdown":
		e.cmdShutdown(ctx, sender)
	default:
		return false
	}
	return true
}

// ensureOperator replies with the fixed rejection when sender is not the
// operator. Rejections are not logged as errors.
func (e *Engine) ensureOperator(ctx context.Context, sender domain.Identity) bool {
	if sender.NumericID != e.AdminID {
		e.reply(ctx, sender.NumericID, "You are not an admin.")
		return false
	}
	return true
}

// cmdStart registers the sender's handle so /block works for users who have
// only ever issued /start, then greets them.
func (e *Engine) cmdStart(ctx context.Context, sender domain.Identity) {
	e.Directory.RecordSighting(sender.HandleOrSynthetic(), sender.NumericID)
	e.reply(ctx, sender.NumericID, greeting)
}

func (e *Engine) cmdMode(ctx context.Context, sender domain.Identity, args []string) {
	if !e.ensureOperator(ctx, sender) {
		return
	}
	if len(args) < 1 {
		e.reply(ctx, sender.NumericID, fmt.Sprintf(
			"Current mode: %s\nUsage: /mode forward or /mode file", e.Modes.Get().WireToken()))
		return
	}

	mode, err := ParseMode(strings.ToLower(args[0]))
	if err != nil {
		e.reply(ctx, sender.NumericID, "Unknown mode. Use 'forward' or 'file'.")
		return
	}
	e.Modes.Set(mode)
	e.Log.Info().Str("mode", mode.String()).Msg("admin changed mode")
	e.reply(ctx, sender.NumericID, fmt.Sprintf("Mode changed to %s", mode.WireToken()))
}

func (e *Engine) cmdBlock(ctx context.Context, sender domain.Identity, args []string) {
	if !e.ensureOperator(ctx, sender) {
		return
	}
	if len(args) < 1 {
		e.reply(ctx, sender.NumericID, "Usage: /block <username>")
		return
	}

	handle := strings.TrimPrefix(args[0], "@")
	uid, ok := e.Directory.Resolve(handle)
	if !ok {
		e.reply(ctx, sender.NumericID, fmt.Sprintf(
			"User @%s not found in memory.\nThey might not have interacted with the bot yet.", handle))
		return
	}

	e.Blocklist.Block(uid)
	e.Log.Info().Int64("user_id", uid).Str("username", handle).Msg("admin blocked user")
	e.reply(ctx, sender.NumericID, fmt.Sprintf("User @%s (id=%d) has been blocked.", handle, uid))
}

func (e *Engine) cmdUnblock(ctx context.Context, sender domain.Identity, args []string) {
	if !e.ensureOperator(ctx, sender) {
		return
	}
	if len(args) < 1 {
		e.reply(ctx, sender.NumericID, "Usage: /unblock <username>")
		return
	}

	handle := strings.TrimPrefix(args[0], "@")
	uid, ok := e.Directory.Resolve(handle)
	if !ok {
		e.reply(ctx, sender.NumericID, fmt.Sprintf("User @%s not found in memory.", handle))
		return
	}

	if !e.Blocklist.Unblock(uid) {
		e.reply(ctx, sender.NumericID, fmt.Sprintf("User @%s is not blocked.", handle))
		return
	}
	e.Log.Info().Int64("user_id", uid).Str("username", handle).Msg("admin unblocked user")
	e.reply(ctx, sender.NumericID, fmt.Sprintf("User @%s (id=%d) has been unblocked.", handle, uid))
}

func (e *Engine) cmdBlocked(ctx context.Context, sender domain.Identity) {
	if !e.ensureOperator(ctx, sender) {
		return
	}

	ids := e.Blocklist.List()
	if len(ids) == 0 {
		e.reply(ctx, sender.NumericID, "No blocked users.")
		return
	}

	lines := []string{"Blocked users:"}
	for _, uid := range ids {
		// Inverting the directory is lossy when a user changed handles; the
		// last-seen handle wins and unknown users are shown by ID only.
		if h, ok := e.Directory.HandleFor(uid); ok {
			lines = append(lines, fmt.Sprintf(" - @%s (id=%d)", h, uid))
		} else {
			lines = append(lines, fmt.Sprintf(" - (id=%d) (unknown username)", uid))
		}
	}
	e.reply(ctx, sender.NumericID, strings.Join(lines, "\n"))
}

func (e *Engine) cmdStats(ctx context.Context, sender domain.Identity) {
	if !e.ensureOperator(ctx, sender) {
		return
	}

	now := e.Now()
	s := e.Stats.Summarize(now)
	e.reply(ctx, sender.NumericID, fmt.Sprintf(
		"Stats:\nTotal suggestions: %d\nUnique users: %d\nLast 24 hours: %d\nLast 7 days: %d\nLast 30 days: %d",
		s.Total, s.UniqueUsers, s.Last24h, s.Last7d, s.Last30d))

	path, err := e.Chart.RenderHistogram(e.Stats.DailyHistogram(now, 7))
	if err != nil {
		dispatchFailures.WithLabelValues("stats_chart").Inc()
		e.Log.Error().Err(err).Msg("failed to render stats plot")
		e.reply(ctx, sender.NumericID, "Error sending stats plot.")
		return
	}
	// The chart is a transient artifact, removed regardless of send outcome.
	defer os.Remove(path)

	if err := e.Sender.SendImage(ctx, sender.NumericID, path); err != nil {
		dispatchFailures.WithLabelValues("stats_chart").Inc()
		e.Log.Error().Err(err).Msg("failed to send stats plot")
		e.reply(ctx, sender.NumericID, "Error sending stats plot.")
	}
}

func (e *Engine) cmdShutdown(ctx context.Context, sender domain.Identity) {
	if !e.ensureOperator(ctx, sender) {
		return
	}
	e.reply(ctx, sender.NumericID, "Shutting down the bot...")
	if e.Stop != nil {
		e.Stop()
	}
}
