package fsm

import (
	"log/slog"

	"github.com/google/uuid"
)

// Logger provides logging hooks for ringlet execution and cloning.
type Logger interface {
	StateEntered(machine, state string)
	MainExecuted(machine, state string)
	TransitionTaken(machine, from, to string, index int)
	MachineCloned(machine string, original, clone uuid.UUID, states int)
}

// DefaultLogger implements Logger using slog. Cycle events are logged at
// debug level since a machine runs one cycle per time slot.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a Logger backed by logger, or slog.Default() when nil.
func NewDefaultLogger(logger *slog.Logger) *DefaultLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultLogger{
		logger: logger,
	}
}

// StateEntered logs at debug level.
func (l *DefaultLogger) StateEntered(machine, state string) {
	l.logger.Debug("State entered",
		"machine", machine,
		"state", state,
	)
}

// MainExecuted logs at debug level.
func (l *DefaultLogger) MainExecuted(machine, state string) {
	l.logger.Debug("Main executed",
		"machine", machine,
		"state", state,
	)
}

// TransitionTaken logs at debug level.
func (l *DefaultLogger) TransitionTaken(machine, from, to string, index int) {
	l.logger.Debug("Transition taken",
		"machine", machine,
		"from", from,
		"to", to,
		"transition", index,
	)
}

// MachineCloned logs at debug level.
func (l *DefaultLogger) MachineCloned(machine string, original, clone uuid.UUID, states int) {
	l.logger.Debug("Machine cloned",
		"machine", machine,
		"original_id", original.String(),
		"clone_id", clone.String(),
		"states", states,
	)
}
