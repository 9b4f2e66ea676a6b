package husk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// UserMessenger delivers progress messages to the human at the terminal.
// These are distinct from the structured log: they are ephemeral, unlogged
// chatter, and muting them never changes what the engine prints.
type UserMessenger interface {
	Message(ctx context.Context, msg string)
	Messagef(ctx context.Context, format string, args ...any)
}

// Dim gray, so progress chatter never reads as engine output.
const (
	dimOn  = "\033[90m"
	dimOff = "\033[0m"
)

type terminalMessenger struct {
	writer io.Writer
}

// NewTerminalMessenger returns a UserMessenger that writes dim-gray lines to writer.
func NewTerminalMessenger(writer io.Writer) UserMessenger {
	return &terminalMessenger{writer: writer}
}

func (tm *terminalMessenger) Message(ctx context.Context, msg string) {
	if tm.writer == nil {
		slog.DebugContext(ctx, "messenger without writer", "msg", msg)
		return
	}
	fmt.Fprintln(tm.writer, dimOn+msg+dimOff)
}

func (tm *terminalMessenger) Messagef(ctx context.Context, format string, args ...any) {
	tm.Message(ctx, fmt.Sprintf(format, args...))
}

type nullMessenger struct{}

// NewNullMessenger returns a UserMessenger that drops everything on the floor.
func NewNullMessenger() UserMessenger {
	return &nullMessenger{}
}

func (nm *nullMessenger) Message(ctx context.Context, msg string) {
	slog.DebugContext(ctx, "muted messenger", "msg", msg)
}

func (nm *nullMessenger) Messagef(ctx context.Context, format string, args ...any) {
	nm.Message(ctx, fmt.Sprintf(format, args...))
}
