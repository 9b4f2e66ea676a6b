package husk

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/husklabs/husk/dockercli/options"
	"github.com/husklabs/husk/dockercli/types"
	"github.com/husklabs/husk/store"
)

// Shell opens exactly one interactive session in DefaultImageName with hostDir
// bind mounted at WorkTarget. The invoker's terminal is attached for the
// session's lifetime, the container is removed when it ends, and the session's
// exit status comes back untouched as the returned error. There are no image
// existence pre-checks: a missing image is the engine's error to report.
func (w *Workbench) Shell(ctx context.Context, hostDir string) error {
	return w.session(ctx, "workbench.shell", hostDir, nil, true)
}

// RunOnce runs argv once in a fresh container with the same mount shape Shell
// uses. tty controls whether the engine allocates a pseudo-terminal.
func (w *Workbench) RunOnce(ctx context.Context, hostDir string, argv []string, tty bool) error {
	return w.session(ctx, "workbench.run", hostDir, argv, tty)
}

func (w *Workbench) session(ctx context.Context, spanName, hostDir string, argv []string, tty bool) error {
	id := w.newID()
	name := w.newName()

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("husk.image", DefaultImageName),
			attribute.String("husk.host_dir", hostDir),
			attribute.String("husk.session", id),
		))
	defer span.End()

	mount := MountSpec{Source: hostDir, Target: WorkTarget}
	opts := options.RunContainer{
		Interactive: true,
		TTY:         tty,
		Remove:      true,
		Name:        name,
		Mount:       []string{mount.String()},
		Workdir:     WorkTarget,
		Label: map[string]string{
			ManagedLabel: "true",
			SessionLabel: id,
		},
	}

	w.msg.Messagef(ctx, "Starting %s (%s) with %s mounted at %s", name, DefaultImageName, hostDir, WorkTarget)
	startedAt := w.now()

	if w.store != nil {
		rec := store.SessionRecord{
			ID:          id,
			Name:        name,
			Image:       DefaultImageName,
			HostDir:     hostDir,
			MountTarget: WorkTarget,
			Command:     strings.Join(argv, " "),
			StartedAt:   startedAt,
		}
		if serr := w.store.RecordSessionStart(ctx, rec); serr != nil {
			slog.ErrorContext(ctx, "Workbench.session record start", "error", serr)
		}
	}

	wait, err := w.containers.Run(ctx, opts, DefaultImageName, argv, w.stdin, w.stdout, w.stderr)
	if err == nil {
		err = wait()
	}

	if w.store != nil {
		if serr := w.store.CompleteSession(ctx, id, w.now(), ExitCode(err)); serr != nil {
			slog.ErrorContext(ctx, "Workbench.session record end", "error", serr)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// LiveSessions returns the engine's view of running husk-managed containers.
func (w *Workbench) LiveSessions(ctx context.Context) ([]types.ContainerSummary, error) {
	return w.containers.List(ctx, options.ListContainers{
		Filter: []string{"label=" + ManagedLabel + "=true"},
	})
}

// RemoveSession stops and removes the named session container if the engine
// still knows it, then drops its history rows. A container the engine has
// already forgotten is not an error.
func (w *Workbench) RemoveSession(ctx context.Context, name string) error {
	if out, err := w.containers.Stop(ctx, options.StopContainer{}, name); err != nil {
		slog.InfoContext(ctx, "Workbench.RemoveSession stop", "name", name, "error", err, "out", out)
	}
	out, err := w.containers.Remove(ctx, options.RemoveContainer{Force: true}, name)
	if err != nil {
		if !strings.Contains(strings.ToLower(out), "no such container") {
			return err
		}
		slog.InfoContext(ctx, "Workbench.RemoveSession: container already gone", "name", name)
	}
	if w.store != nil {
		return w.store.DeleteSessionByName(ctx, name)
	}
	return nil
}

// RemoveImage removes the dev image from the engine.
func (w *Workbench) RemoveImage(ctx context.Context) error {
	out, err := w.images.Remove(ctx, options.RemoveImage{Force: true}, DefaultImageName)
	if err != nil {
		slog.ErrorContext(ctx, "Workbench.RemoveImage", "error", err, "out", out)
		return err
	}
	w.msg.Messagef(ctx, "Removed %s", DefaultImageName)
	return nil
}
