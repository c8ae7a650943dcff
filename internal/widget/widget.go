package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
	"github.com/mamadbah2/timeclock/pkg/clients/timeclock"
)

var (
	// ErrConfirmationRequired is returned when clock_out is pressed without confirmation.
	ErrConfirmationRequired = errors.New("clock out requires confirmation")

	// ErrAlreadyInState is returned when the pressed action equals the last one.
	ErrAlreadyInState = errors.New("already in requested state")
)

// Widget is the POS clock tile of one staff member.
type Widget struct {
	client  timeclock.Client
	staffID string
	last    models.Action
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a widget. The last action starts as clock_out until Load runs.
func New(client timeclock.Client, staffID string, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		client:  client,
		staffID: staffID,
		last:    models.ActionClockOut,
		logger:  logger,
		now:     time.Now,
	}
}

// Load checks the API is reachable, then fetches the current status.
func (w *Widget) Load(ctx context.Context) (models.Action, error) {
	if err := w.client.Ping(ctx); err != nil {
		return "", fmt.Errorf("time tracking api unreachable: %w", err)
	}

	action, err := w.client.Status(ctx, w.staffID)
	if err != nil {
		return "", fmt.Errorf("load status of %s: %w", w.staffID, err)
	}

	w.last = action
	w.logger.Debug("widget loaded", zap.String("staff_id", w.staffID), zap.String("last_action", string(action)))
	return action, nil
}

// LastAction returns the last known action.
func (w *Widget) LastAction() models.Action {
	return w.last
}

// Press records action and returns the message shown to the staff member.
func (w *Widget) Press(ctx context.Context, action models.Action, confirmed bool) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("invalid action %q", action)
	}
	if action == models.ActionClockOut && !confirmed {
		return "", ErrConfirmationRequired
	}
	if action == w.last {
		return "", fmt.Errorf("you are already %s: %w", action.Label(), ErrAlreadyInState)
	}

	id, err := w.client.Clock(ctx, w.staffID, action)
	if err != nil {
		return "", fmt.Errorf("failed to %s: %w", action.Label(), err)
	}

	w.last = action
	w.logger.Info("clock action recorded", zap.String("staff_id", w.staffID), zap.String("action", string(action)), zap.String("id", id))
	return w.message(action), nil
}

// Toggle flips between clock_in and clock_out. The clock_out counts as confirmed.
func (w *Widget) Toggle(ctx context.Context) (models.Action, string, error) {
	next := models.ActionClockIn
	if w.last == models.ActionClockIn {
		next = models.ActionClockOut
	}

	msg, err := w.Press(ctx, next, true)
	if err != nil {
		return "", "", err
	}
	return next, msg, nil
}

func (w *Widget) message(action models.Action) string {
	switch action {
	case models.ActionClockIn:
		return "Successfully clocked in at " + w.now().Format("15:04")
	case models.ActionClockOut:
		return "You have clocked out. Have a great day!"
	case models.ActionBreak:
		return "Break started. Remember to clock back in when you return."
	case models.ActionLunch:
		return "Enjoy your lunch! Don't forget to clock back in afterward."
	default:
		return "Successfully " + action.Label() + "!"
	}
}
