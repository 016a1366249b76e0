package docstore

import (
	"context"
	"fmt"
	"time"

	fwerrors "github.com/framewright/framewright/pkg/errors"
	fwio "github.com/framewright/framewright/pkg/io"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/observability"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = fwerrors.New(fwerrors.ErrCodeDocumentNotFound, "document not found")

// Store is a document persistence backend. Implementations validate ids
// and are safe for concurrent use.
type Store interface {
	// Kind names the backend for logs and hooks.
	Kind() string
	// Load returns the stored bytes of id, or an error wrapping ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)
	// Save creates or replaces id.
	Save(ctx context.Context, id string, data []byte) error
	// Delete removes id. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all document ids in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// LoadNodes loads and decodes document id.
func LoadNodes(ctx context.Context, s Store, id string) ([]node.Node, error) {
	start := time.Now()
	data, err := s.Load(ctx, id)
	observability.DocStore().OnLoad(ctx, s.Kind(), id, err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}
	nodes, err := fwio.Decode(data)
	if err != nil {
		return nil, fwerrors.Wrap(fwerrors.ErrCodeInvalidDocument, err, "document %s", id)
	}
	return nodes, nil
}

// SaveNodes encodes nodes and saves them as document id.
func SaveNodes(ctx context.Context, s Store, id string, nodes []node.Node) error {
	start := time.Now()
	data, err := fwio.Encode(nodes)
	if err == nil {
		err = s.Save(ctx, id, data)
	}
	observability.DocStore().OnSave(ctx, s.Kind(), id, len(data), time.Since(start), err)
	return err
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend    string // memory, file, redis or mongo
	Path       string
	URL        string
	Prefix     string
	Database   string
	Collection string
	Timeout    time.Duration

	// ConnectAttempts bounds connection attempts to a network backend.
	// Zero means DefaultConnectAttempts.
	ConnectAttempts int
}

// Open creates the backend named by opts.Backend. Network backends are
// retried with backoff while the server is unreachable.
func Open(ctx context.Context, opts Options) (Store, error) {
	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = DefaultConnectAttempts
	}

	var s Store
	connect := func(dial func() (Store, error)) (Store, error) {
		err := retry(ctx, attempts, connectRetryDelay, func() error {
			var err error
			s, err = dial()
			return err
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(opts.Path)
	case "redis":
		return connect(func() (Store, error) {
			return NewRedisStore(ctx, opts.URL, opts.Prefix, opts.Timeout)
		})
	case "mongo":
		return connect(func() (Store, error) {
			return NewMongoStore(ctx, opts.URL, opts.Database, opts.Collection, opts.Timeout)
		})
	}
	return nil, fwerrors.New(fwerrors.ErrCodeUnsupported, "unknown document store backend %q", opts.Backend)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func storageErr(kind, op, id string, err error) error {
	return fwerrors.Wrap(fwerrors.ErrCodeStorage, err, "%s %s %s", kind, op, id)
}
