// command husk builds a project-local dev image and opens shells inside it.
//
// The two core commands are deliberately thin: `husk build` issues one engine
// build of the current directory tagged husk-dev:latest, and `husk shell`
// runs one interactive container from that image with the directory mounted
// at /husk. Engine output and exit codes pass through untouched; everything
// else here is bookkeeping around those two moves.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"github.com/posener/complete"
	"gopkg.in/natefinch/lumberjack.v2"

	husk "github.com/husklabs/husk"
	"github.com/husklabs/husk/dockercli"
	"github.com/husklabs/husk/store"
	"github.com/husklabs/husk/telemetry"
	"github.com/husklabs/husk/version"
)

// Context carries the shared dependencies every subcommand runs with.
type Context struct {
	Workbench *husk.Workbench
	Store     *store.Store
	Client    *dockercli.Client
	Msg       husk.UserMessenger

	Engine   string
	StateDir string
	LogFile  string

	Stdout io.Writer
	Stderr io.Writer
}

// RequireEngine fails fast when the engine binary is missing, so commands
// don't die mid-flight with a murkier exec error.
func (c *Context) RequireEngine() error {
	if !c.Client.Available() {
		return fmt.Errorf("%s not found on PATH (install it, or pick another engine with --engine)", c.Engine)
	}
	return nil
}

type CLI struct {
	Engine       string `default:"docker" enum:"docker,podman" predictor:"engines" help:"container engine CLI to drive"`
	StateDir     string `default:"~/.local/state/husk" type:"path" help:"directory for the invocation history database"`
	LogFile      string `default:"~/.local/state/husk/husk.log" type:"path" help:"structured log file location"`
	LogLevel     string `default:"info" enum:"debug,info,warn,error" help:"the logging level (debug, info, warn, error)"`
	OtelEndpoint string `placeholder:"<host:port>" help:"OTLP gRPC endpoint to export traces to (tracing is off when empty)"`
	Quiet        bool   `short:"q" help:"suppress progress messages on stderr"`

	Build      BuildCmd                  `cmd:"" help:"build husk-dev:latest from the current directory"`
	Shell      ShellCmd                  `cmd:"" help:"open an interactive shell with the current directory mounted at /husk"`
	Run        RunCmd                    `cmd:"" help:"run one command in a fresh container with the same mount"`
	Init       InitCmd                   `cmd:"" help:"write a starter Dockerfile into the current directory"`
	Ls         LsCmd                     `cmd:"" help:"list live sessions and recorded history"`
	Rm         RmCmd                     `cmd:"" help:"remove session containers, history records, or the dev image"`
	Bundle     BundleCmd                 `cmd:"" help:"pack payload directories and publish them to an OCI registry"`
	Logs       LogsCmd                   `cmd:"" help:"pretty-print the structured log file"`
	Doctor     DoctorCmd                 `cmd:"" help:"diagnose the environment husk depends on"`
	Doc        DocCmd                    `cmd:"" help:"print complete command help formatted as markdown"`
	Completion kongcompletion.Completion `cmd:"" help:"generate shell completion scripts"`
	Version    VersionCmd                `cmd:"" help:"print version information about this command"`
}

func (c *CLI) initSlog() {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	slog.Debug("slog initialized", "level", level.String(), "file", c.LogFile)
}

// exitError requests a specific process exit status without any further
// output; the handler has already said everything there is to say.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

const description = `Build a project-local dev image and work inside it.

husk wraps a docker-compatible engine with two core moves: 'husk build'
bakes the current directory into the husk-dev:latest image, and
'husk shell' opens an interactive session in that image with the current
directory mounted at /husk. Everything else is bookkeeping around those.`

func main() {
	var cli CLI

	parser := kong.Must(&cli,
		kong.Name("husk"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Configuration(kongyaml.Loader, "~/.config/husk/config.yaml", ".husk.yaml"),
	)
	kongcompletion.Register(parser,
		kongcompletion.WithPredictor("engines", complete.PredictSet(dockercli.EngineDocker, dockercli.EnginePodman)),
		kongcompletion.WithPredictor("files", complete.PredictFiles("*")),
		kongcompletion.WithPredictor("dirs", complete.PredictDirs("*")),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cli.initSlog()
	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cli.OtelEndpoint, version.Get().Version)
	if err != nil {
		slog.Error("telemetry disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	var msg husk.UserMessenger
	if cli.Quiet {
		msg = husk.NewNullMessenger()
	} else {
		msg = husk.NewTerminalMessenger(os.Stderr)
	}

	// Recording is observational: a broken store is logged and husk runs on
	// without history rather than blocking the engine.
	st, err := store.Open(ctx, cli.StateDir)
	if err != nil {
		slog.Error("history store unavailable", "error", err, "dir", cli.StateDir)
		st = nil
	}

	client := dockercli.New(cli.Engine)
	err = kctx.Run(&Context{
		Workbench: husk.NewWorkbench(client, st, msg),
		Store:     st,
		Client:    client,
		Msg:       msg,
		Engine:    cli.Engine,
		StateDir:  cli.StateDir,
		LogFile:   cli.LogFile,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	})

	// Flush before the os.Exit paths below; defers would be skipped.
	if st != nil {
		if cerr := st.Close(); cerr != nil {
			slog.Error("closing history store", "error", cerr)
		}
	}
	if terr := shutdown(ctx); terr != nil {
		slog.Error("telemetry shutdown", "error", terr)
	}

	// Engine failures pass through untouched: the engine already reported
	// whatever went wrong on its own stderr, so the only thing left to do
	// is exit with its code.
	var engineExit *exec.ExitError
	if errors.As(err, &engineExit) {
		os.Exit(engineExit.ExitCode())
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	kctx.FatalIfErrorf(err)
}
