package cli

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/viewport"
)

// defaultSyncJobs bounds concurrent document syncs.
const defaultSyncJobs = 4

// syncOpts holds options for the sync command.
type syncOpts struct {
	from   string
	jobs   int
	dryRun bool
}

// syncCommand creates the sync command for propagating viewport structure.
func (c *CLI) syncCommand() *cobra.Command {
	opts := syncOpts{}

	cmd := &cobra.Command{
		Use:   "sync <document>...",
		Short: "Propagate the primary viewport to the other viewports",
		Long: `Push the structure of one viewport onto the others and write the result
back. Nodes missing from a target viewport are created, extra counterparts
are removed, and children are reordered to match. Style properties marked
independent in a target viewport are left alone.

By default the widest viewport is the source. Documents are processed
concurrently.`,
		Example: `  framewright sync landing.json
  framewright sync landing pricing --from mobile
  framewright sync docs/*.json --dry-run`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeDocuments(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "source viewport id (default: widest viewport)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultSyncJobs, "documents synced in parallel")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "report changes without writing")

	return cmd
}

// syncResult is the outcome of syncing one document.
type syncResult struct {
	doc   document
	stats viewport.Stats
	err   error
}

func (c *CLI) runSync(ctx context.Context, args []string, opts syncOpts) error {
	if opts.jobs < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--jobs must be at least 1")
	}
	docs, err := parseDocuments(args)
	if err != nil {
		return err
	}
	// Loaded before the workers start, which share it read-only.
	if _, err := c.loadConfig(); err != nil {
		return err
	}
	ds, closeStore, err := c.storeFor(ctx, docs)
	if err != nil {
		return err
	}
	defer closeStore()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, syncMessage(0, len(docs)))
	spinner.Start()

	results := make([]syncResult, len(docs))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, d := range docs {
		g.Go(func() error {
			stats, err := c.syncDocument(gctx, d, ds, opts)
			results[i] = syncResult{doc: d, stats: stats, err: err}
			spinner.SetMessage(syncMessage(int(done.Add(1)), len(docs)))
			// A failing document must not abort the others.
			return nil
		})
	}
	_ = g.Wait()
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			printError("%s: %s", r.doc, errors.UserMessage(r.err))
		case !r.stats.Changed():
			printSuccess("%s %s", r.doc, StyleDim.Render("already in sync"))
		default:
			printSuccess("%s", r.doc)
			printDetail("%s", formatSyncStats(r.stats))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	verb := "Synced"
	if opts.dryRun {
		verb = "Checked"
	}
	prog.done(fmt.Sprintf("%s %d documents", verb, len(docs)))
	return nil
}

// syncDocument loads d, syncs it and writes it back unless dry-running.
func (c *CLI) syncDocument(ctx context.Context, d document, ds docstore.Store, opts syncOpts) (viewport.Stats, error) {
	ed, err := c.openEditor(ctx, d, ds)
	if err != nil {
		return viewport.Stats{}, err
	}
	defer ed.Close()

	var stats viewport.Stats
	if opts.from != "" {
		stats, err = ed.SyncFrom(opts.from)
	} else {
		stats, err = ed.Sync()
	}
	if err != nil {
		return viewport.Stats{}, err
	}
	c.Logger.Debug("synced", "document", d, "stats", stats)

	if opts.dryRun || !stats.Changed() {
		return stats, nil
	}
	if err := saveDocument(ctx, ed, d); err != nil {
		return viewport.Stats{}, err
	}
	return stats, nil
}

func syncMessage(done, total int) string {
	return fmt.Sprintf("Syncing documents (%d/%d)...", done, total)
}

func formatSyncStats(s viewport.Stats) string {
	return fmt.Sprintf("%d created · %d removed · %d moved · %d updated",
		s.Created, s.Removed, s.Moved, s.Updated)
}
