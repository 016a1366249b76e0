package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/editor"
	"github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/httpapi"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr       string
	document   string
	saveOnExit bool
}

// serveCommand creates the serve command for the HTTP editing API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{saveOnExit: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a document over HTTP",
		Long: `Load a document from the configured store and expose it through the JSON
editing API. A missing document starts out empty. The document is saved
back to the store on shutdown unless --save-on-exit=false.

Routes:
  GET    /nodes                 list nodes in tree order
  POST   /nodes                 add a node
  GET    /nodes/{id}            get a node
  DELETE /nodes/{id}            delete a node and its counterparts
  GET    /nodes/{id}/children   list child ids
  POST   /nodes/{id}/move       move before, after or inside a target
  PATCH  /nodes/{id}/style      merge style properties
  POST   /nodes/{id}/duplicate  duplicate a subtree
  POST   /sync                  propagate the primary viewport
  POST   /undo, /redo           walk the history
  POST   /save                  persist the document`,
		Example: `  framewright serve
  framewright serve --addr 127.0.0.1:9000 --document landing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&opts.document, "document", "d", "", "document id (default from config)")
	cmd.Flags().BoolVar(&opts.saveOnExit, "save-on-exit", opts.saveOnExit, "save the document on shutdown")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.HTTP.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	docID := cfg.HTTP.Document
	if opts.document != "" {
		if err := errors.ValidateDocumentID(opts.document); err != nil {
			return err
		}
		docID = opts.document
	}

	ds, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Warn("close document store", "err", err)
		}
	}()

	ed := editor.New(cfg, editor.WithLogger(logger), editor.WithStore(ds))
	defer ed.Close()

	switch err := ed.Load(ctx, docID); {
	case err == nil:
		logger.Info("document loaded", "id", docID, "nodes", ed.Store().Len(), "backend", ds.Kind())
	case errors.Is(err, errors.ErrCodeDocumentNotFound):
		logger.Info("new document", "id", docID, "backend", ds.Kind())
	default:
		return err
	}

	srv := httpapi.New(ed, logger)
	if err := srv.ListenAndServe(ctx, addr, cfg.ReadTimeout(), cfg.WriteTimeout()); err != nil {
		return err
	}

	if !opts.saveOnExit {
		return nil
	}
	// ctx is already cancelled at this point.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.StoreTimeout())
	defer cancel()
	if err := ed.Save(saveCtx, docID); err != nil {
		return err
	}
	printSuccess("Saved %s", StyleHighlight.Render(docID))
	return nil
}
