package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/husklabs/husk/bundle"
	"github.com/husklabs/husk/store"
)

type BundleCmd struct {
	Manifest  string   `default:"husk-bundles.yaml" type:"path" predictor:"files" help:"bundle manifest file"`
	OutputDir string   `type:"path" predictor:"dirs" help:"write zips locally instead of publishing"`
	Parallel  int      `default:"4" help:"max uploads in flight"`
	Name      []string `arg:"" optional:"" help:"pack only these bundles (default: all in the manifest)"`
}

func (c *BundleCmd) Run(cctx *Context) error {
	ctx := context.Background()

	manifest, err := bundle.LoadManifest(c.Manifest)
	if err != nil {
		return err
	}
	specs := manifest.Bundles
	if len(c.Name) > 0 {
		specs = slices.DeleteFunc(slices.Clone(specs), func(s bundle.Spec) bool {
			return !slices.Contains(c.Name, s.Name)
		})
		if len(specs) != len(c.Name) {
			return fmt.Errorf("manifest %s does not declare all of %v", c.Manifest, c.Name)
		}
	}
	if c.OutputDir == "" && manifest.Registry == "" {
		return fmt.Errorf("%s declares no registry; publish needs one, or use --output-dir", c.Manifest)
	}

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "os.Getwd", "error", err)
		return err
	}

	archives := make([]*bundle.Archive, 0, len(specs))
	for _, spec := range specs {
		a, err := bundle.Pack(cwd, spec)
		if err != nil {
			return err
		}
		cctx.Msg.Messagef(ctx, "Packed %s", a.Describe())
		archives = append(archives, a)
	}

	if c.OutputDir != "" {
		return c.writeLocal(ctx, cctx, archives)
	}

	pub := bundle.NewPublisher(manifest.Registry)
	results, err := pub.PublishAll(ctx, archives, c.Parallel)
	c.record(ctx, cctx, results)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cctx.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUNDLE\tDIGEST\tACTION\tREFERENCE\t")
	for _, res := range results {
		action := "cached"
		if res.Pushed {
			action = "pushed"
		}
		fmt.Fprintf(w, "%s\t%.12s\t%s\t%s\t\n", res.Name, res.Digest, action, res.Reference)
	}
	return w.Flush()
}

func (c *BundleCmd) writeLocal(ctx context.Context, cctx *Context, archives []*bundle.Archive) error {
	for _, a := range archives {
		out, err := bundle.WriteArchive(c.OutputDir, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cctx.Stdout, "%s\n", out)
		if cctx.Store != nil {
			rec := store.BundleRecord{
				Name:      a.Name,
				Digest:    a.Digest,
				SizeBytes: int64(len(a.Data)),
				Reference: out,
				CreatedAt: time.Now(),
			}
			if serr := cctx.Store.RecordBundle(ctx, rec); serr != nil {
				slog.ErrorContext(ctx, "BundleCmd record", "error", serr)
			}
		}
	}
	return nil
}

// record stores whatever completed; on a partial failure the zero-valued
// entries are skipped.
func (c *BundleCmd) record(ctx context.Context, cctx *Context, results []bundle.Result) {
	if cctx.Store == nil {
		return
	}
	for _, res := range results {
		if res.Reference == "" {
			continue
		}
		rec := store.BundleRecord{
			Name:      res.Name,
			Digest:    res.Digest,
			SizeBytes: res.Size,
			Reference: res.Reference,
			Pushed:    res.Pushed,
			CreatedAt: time.Now(),
		}
		if serr := cctx.Store.RecordBundle(ctx, rec); serr != nil {
			slog.ErrorContext(ctx, "BundleCmd record", "error", serr)
		}
	}
}
