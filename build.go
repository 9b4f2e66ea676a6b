package husk

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/husklabs/husk/dockercli/options"
	"github.com/husklabs/husk/store"
)

// Build issues exactly one image build tagged DefaultImageName with contextDir
// as the build context. The engine's output streams to the workbench stdio as
// it happens, and any engine failure is returned untouched: no retries, no
// existence pre-checks, no wrapping. Rebuilding over an existing image is the
// engine's business and works the way the engine says it does.
func (w *Workbench) Build(ctx context.Context, contextDir string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "workbench.build",
		trace.WithAttributes(
			attribute.String("husk.image", DefaultImageName),
			attribute.String("husk.context_dir", contextDir),
		))
	defer span.End()

	w.msg.Messagef(ctx, "Building %s from %s", DefaultImageName, contextDir)
	startedAt := w.now()

	wait, err := w.images.Build(ctx, options.BuildImage{Tag: DefaultImageName}, contextDir, w.stdout, w.stderr)
	if err == nil {
		err = wait()
	}

	if w.store != nil {
		rec := store.BuildRecord{
			ID:         w.newID(),
			Image:      DefaultImageName,
			ContextDir: contextDir,
			StartedAt:  startedAt,
			Duration:   w.now().Sub(startedAt),
			ExitCode:   ExitCode(err),
		}
		if serr := w.store.RecordBuild(ctx, rec); serr != nil {
			slog.ErrorContext(ctx, "Workbench.Build record", "error", serr)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	w.msg.Messagef(ctx, "Built %s", DefaultImageName)
	return nil
}
