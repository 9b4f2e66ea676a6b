package husk

import (
	"context"
	"io"

	"github.com/husklabs/husk/dockercli"
	"github.com/husklabs/husk/dockercli/options"
	"github.com/husklabs/husk/dockercli/types"
)

// ContainerOps is the container-side engine surface the workbench needs.
type ContainerOps interface {
	Run(ctx context.Context, opts options.RunContainer, image string, argv []string, stdin io.Reader, stdout, stderr io.Writer) (func() error, error)
	List(ctx context.Context, opts options.ListContainers) ([]types.ContainerSummary, error)
	Stop(ctx context.Context, opts options.StopContainer, ids ...string) (string, error)
	Remove(ctx context.Context, opts options.RemoveContainer, ids ...string) (string, error)
}

// ImageOps is the image-side engine surface the workbench needs.
type ImageOps interface {
	Build(ctx context.Context, opts options.BuildImage, contextDir string, stdout, stderr io.Writer) (func() error, error)
	Inspect(ctx context.Context, ref string) ([]types.ImageInspect, error)
	List(ctx context.Context, opts options.ListImages) ([]types.ImageSummary, error)
	Remove(ctx context.Context, opts options.RemoveImage, ref string) (string, error)
}

type engineContainerOps struct {
	client *dockercli.Client
}

// NewEngineContainerOps returns ContainerOps backed by the engine CLI client.
func NewEngineContainerOps(client *dockercli.Client) ContainerOps {
	return &engineContainerOps{client: client}
}

func (e *engineContainerOps) Run(ctx context.Context, opts options.RunContainer, image string, argv []string, stdin io.Reader, stdout, stderr io.Writer) (func() error, error) {
	return e.client.RunContainer(ctx, opts, image, argv, stdin, stdout, stderr)
}

func (e *engineContainerOps) List(ctx context.Context, opts options.ListContainers) ([]types.ContainerSummary, error) {
	return e.client.ListContainers(ctx, opts)
}

func (e *engineContainerOps) Stop(ctx context.Context, opts options.StopContainer, ids ...string) (string, error) {
	return e.client.StopContainer(ctx, opts, ids...)
}

func (e *engineContainerOps) Remove(ctx context.Context, opts options.RemoveContainer, ids ...string) (string, error) {
	return e.client.RemoveContainer(ctx, opts, ids...)
}

type engineImageOps struct {
	client *dockercli.Client
}

// NewEngineImageOps returns ImageOps backed by the engine CLI client.
func NewEngineImageOps(client *dockercli.Client) ImageOps {
	return &engineImageOps{client: client}
}

func (e *engineImageOps) Build(ctx context.Context, opts options.BuildImage, contextDir string, stdout, stderr io.Writer) (func() error, error) {
	return e.client.BuildImage(ctx, opts, contextDir, stdout, stderr)
}

func (e *engineImageOps) Inspect(ctx context.Context, ref string) ([]types.ImageInspect, error) {
	return e.client.InspectImage(ctx, ref)
}

func (e *engineImageOps) List(ctx context.Context, opts options.ListImages) ([]types.ImageSummary, error) {
	return e.client.ListImages(ctx, opts)
}

func (e *engineImageOps) Remove(ctx context.Context, opts options.RemoveImage, ref string) (string, error) {
	return e.client.RemoveImage(ctx, opts, ref)
}
