package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/errors"
)

// validateOpts holds options for the validate command.
type validateOpts struct {
	strict bool
}

// validateCommand creates the validate command for checking documents.
func (c *CLI) validateCommand() *cobra.Command {
	opts := validateOpts{}

	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Check documents for broken tree invariants",
		Long: `Load each document and check its tree: unique ids, known parents, no
cycles, top-level viewports with distinct widths, and at most one node per
shared id in each viewport.

Viewports that have drifted apart are reported as a warning, or as an error
with --strict.`,
		Example: `  framewright validate landing.json pricing.json
  framewright validate landing --strict`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeDocuments(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat out-of-sync viewports as an error")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, args []string, opts validateOpts) error {
	docs, err := parseDocuments(args)
	if err != nil {
		return err
	}
	ds, closeStore, err := c.storeFor(ctx, docs)
	if err != nil {
		return err
	}
	defer closeStore()

	failed := 0
	for _, d := range docs {
		drift, err := c.validateDocument(ctx, d, ds)
		switch {
		case err != nil:
			failed++
			printError("%s: %s", d, errors.UserMessage(err))
		case drift && opts.strict:
			failed++
			printError("%s: viewports out of sync", d)
		case drift:
			printWarning("%s: viewports out of sync", d)
		default:
			printSuccess("%s", d)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(docs))
	}
	return nil
}

// validateDocument loads d, re-checks its invariants and reports whether a
// sync from the primary viewport would change anything.
func (c *CLI) validateDocument(ctx context.Context, d document, ds docstore.Store) (bool, error) {
	ed, err := c.openEditor(ctx, d, ds)
	if err != nil {
		return false, err
	}
	defer ed.Close()

	if err := ed.Store().Validate(); err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidDocument, err, "tree")
	}
	stats, err := ed.Sync()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidDocument, err, "sync")
	}
	c.Logger.Debug("validated", "document", d, "nodes", ed.Store().Len(), "drift", stats)
	return stats.Changed(), nil
}
