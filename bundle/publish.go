package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"github.com/google/go-containerregistry/pkg/v1/static"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"golang.org/x/sync/errgroup"
)

const zipMediaType = types.MediaType("application/zip")

// Publisher pushes packed archives to an OCI registry, skipping any digest
// tag the registry already has.
type Publisher struct {
	registry string
	opts     []remote.Option
}

// NewPublisher returns a Publisher targeting the given repository prefix,
// authenticating through the ambient docker credential keychain.
func NewPublisher(registry string) *Publisher {
	return &Publisher{
		registry: registry,
		opts:     []remote.Option{remote.WithAuthFromKeychain(authn.DefaultKeychain)},
	}
}

// Result describes what happened to one archive.
type Result struct {
	Name      string
	Digest    string
	Reference string
	Size      int64
	Pushed    bool // false when the registry already had this digest
}

// Reference returns the tag an archive publishes to:
// <registry>/<name>:<digest>.
func (p *Publisher) Reference(a *Archive) string {
	return fmt.Sprintf("%s/%s:%s", p.registry, a.Name, a.Digest)
}

// Publish pushes one archive as a single-layer OCI image unless its digest
// tag already exists. A HEAD 404 means absent; any other HEAD failure
// propagates, since treating an auth or network failure as absence would
// lead straight into a doomed upload.
func (p *Publisher) Publish(ctx context.Context, a *Archive) (*Result, error) {
	refStr := p.Reference(a)
	ref, err := name.ParseReference(refStr)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: bad reference %s: %w", a.Name, refStr, err)
	}
	opts := append([]remote.Option{remote.WithContext(ctx)}, p.opts...)

	res := &Result{
		Name:      a.Name,
		Digest:    a.Digest,
		Reference: refStr,
		Size:      int64(len(a.Data)),
	}

	if _, err := remote.Head(ref, opts...); err == nil {
		slog.InfoContext(ctx, "bundle.Publish: digest already present, skipping", "ref", refStr)
		return res, nil
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("bundle %q: checking %s: %w", a.Name, refStr, err)
	}

	img, err := p.image(a)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: assembling image: %w", a.Name, err)
	}
	if err := remote.Write(ref, img, opts...); err != nil {
		return nil, fmt.Errorf("bundle %q: pushing %s: %w", a.Name, refStr, err)
	}

	slog.InfoContext(ctx, "bundle.Publish: pushed", "ref", refStr, "bytes", res.Size)
	res.Pushed = true
	return res, nil
}

// image wraps the archive bytes in a single-layer OCI image manifest.
func (p *Publisher) image(a *Archive) (v1.Image, error) {
	base := mutate.MediaType(empty.Image, types.OCIManifestSchema1)
	base = mutate.ConfigMediaType(base, types.OCIConfigJSON)

	img, err := mutate.AppendLayers(base, static.NewLayer(a.Data, zipMediaType))
	if err != nil {
		return nil, err
	}
	return mutate.Annotations(img, map[string]string{
		"org.opencontainers.image.title": a.Filename(),
	}).(v1.Image), nil
}

// PublishAll publishes the archives with at most parallel uploads in flight.
// Results are returned in input order; on error the slice still carries the
// entries that completed (the rest have an empty Reference).
func (p *Publisher) PublishAll(ctx context.Context, archives []*Archive, parallel int) ([]Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]Result, len(archives))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, a := range archives {
		g.Go(func() error {
			res, err := p.Publish(ctx, a)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func isNotFound(err error) bool {
	var terr *transport.Error
	return errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound
}
