package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/editor"
	"github.com/framewright/framewright/pkg/errors"
	fwio "github.com/framewright/framewright/pkg/io"
)

// document is a command-line document argument: a JSON file on disk or an
// id in the configured document store.
type document struct {
	path string
	id   string
}

// parseDocument classifies arg. Anything that looks like a path is a file.
func parseDocument(arg string) (document, error) {
	if strings.HasSuffix(arg, ".json") || strings.ContainsAny(arg, "/"+string(filepath.Separator)) {
		if err := errors.ValidatePath(arg); err != nil {
			return document{}, err
		}
		return document{path: arg}, nil
	}
	if err := errors.ValidateDocumentID(arg); err != nil {
		return document{}, err
	}
	return document{id: arg}, nil
}

func parseDocuments(args []string) ([]document, error) {
	docs := make([]document, 0, len(args))
	for _, arg := range args {
		d, err := parseDocument(arg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// String returns the argument the document was parsed from.
func (d document) String() string {
	if d.path != "" {
		return d.path
	}
	return d.id
}

// needsStore reports whether any of docs lives in the document store.
func needsStore(docs []document) bool {
	for _, d := range docs {
		if d.id != "" {
			return true
		}
	}
	return false
}

// storeFor opens the configured document store when docs need one. The
// returned close function is never nil.
func (c *CLI) storeFor(ctx context.Context, docs []document) (docstore.Store, func(), error) {
	if !needsStore(docs) {
		return nil, func() {}, nil
	}
	ds, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ds, func() {
		if err := ds.Close(); err != nil {
			c.Logger.Warn("close document store", "err", err)
		}
	}, nil
}

// openEditor creates an editor and loads d into it. ds may be nil when d is
// a file.
func (c *CLI) openEditor(ctx context.Context, d document, ds docstore.Store) (*editor.Editor, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := []editor.Option{editor.WithLogger(c.Logger)}
	if ds != nil {
		opts = append(opts, editor.WithStore(ds))
	}
	ed := editor.New(cfg, opts...)

	if d.id != "" {
		if err := ed.Load(ctx, d.id); err != nil {
			ed.Close()
			return nil, err
		}
		return ed, nil
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		ed.Close()
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", d.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read document %s", d.path)
	}
	nodes, err := fwio.Decode(data)
	if err != nil {
		ed.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document %s", d.path)
	}
	if err := ed.LoadNodes(nodes); err != nil {
		ed.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document %s", d.path)
	}
	return ed, nil
}

// saveDocument writes the editor's tree back to where d came from.
func saveDocument(ctx context.Context, ed *editor.Editor, d document) error {
	if d.id != "" {
		return ed.Save(ctx, d.id)
	}
	return fwio.ExportJSON(ed.Store(), d.path)
}
