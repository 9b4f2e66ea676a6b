// package husk manages a project-local dev image and interactive container
// sessions on top of a docker-compatible engine.
//
// The two core operations are deliberately dumb delegations: Build issues one
// image build of the invoking directory, Shell runs one interactive container
// with that directory bind mounted. The engine owns all caching, overwrite,
// and failure semantics; husk adds observation (history, logs, traces) around
// the edges without changing either operation's behavior.
package husk

import (
	"io"
	"os"
	"time"

	"github.com/goombaio/namegenerator"
	"github.com/google/uuid"

	"github.com/husklabs/husk/dockercli"
	"github.com/husklabs/husk/store"
)

const (
	// DefaultImageName is the fixed tag Build produces and Shell runs. It is a
	// constant, not a flag: every project gets the same local tag, and the
	// build context decides what's in it.
	DefaultImageName = "husk-dev:latest"

	// WorkTarget is the fixed container path where the invoking directory is
	// bind mounted. Sessions start with it as their working directory.
	WorkTarget = "/husk"
)

// Labels attached to every husk-managed container.
const (
	ManagedLabel = "husk.managed"
	SessionLabel = "husk.session"
)

const tracerName = "github.com/husklabs/husk"

// Workbench orchestrates image builds and container sessions. One Workbench
// serves one CLI invocation; it holds no state beyond its collaborators.
type Workbench struct {
	containers ContainerOps
	images     ImageOps
	store      *store.Store
	msg        UserMessenger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	now     func() time.Time
	newID   func() string
	newName func() string
}

// NewWorkbench returns a Workbench driving the given engine client, recording
// history in st (which may be nil to disable recording), and narrating
// progress through msg.
func NewWorkbench(client *dockercli.Client, st *store.Store, msg UserMessenger) *Workbench {
	return &Workbench{
		containers: NewEngineContainerOps(client),
		images:     NewEngineImageOps(client),
		store:      st,
		msg:        msg,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		now:        time.Now,
		newID:      uuid.NewString,
		newName:    generateName,
	}
}

func generateName() string {
	seed := time.Now().UTC().UnixNano()
	return namegenerator.NewNameGenerator(seed).Generate()
}
