package manager

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/rdfkit/internal/codec"
	"github.com/roach88/rdfkit/internal/config"
	"github.com/roach88/rdfkit/internal/engine"
	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/objstore"
	"github.com/roach88/rdfkit/internal/rdf"
	"github.com/roach88/rdfkit/internal/remote"
)

// Messages of BACKEND_MISMATCH errors.
const (
	msgNativeOnly      = "can only handle native-model stores for now"
	msgSerializeNative = "Only supporting native-model stores!"
)

// Manager runs rdfkit operations. It is safe for concurrent use; the
// stores it hands out impose no locking of their own beyond their backend.
type Manager struct {
	root         string
	timeouts     remote.Timeouts
	logger       *slog.Logger
	blankGen     rdf.BlankGenerator
	maxSolutions int
	prefixes     rdf.PrefixMapping

	engine   *engine.Engine
	importer *codec.Importer
	remote   *remote.Client
	objects  *objstore.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithRoot sets the directory relative file paths resolve against.
func WithRoot(root string) Option {
	return func(m *Manager) {
		m.root = root
	}
}

// WithTimeouts sets the network timeouts.
func WithTimeouts(t remote.Timeouts) Option {
	return func(m *Manager) {
		m.timeouts = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBlankGenerator sets the source of blank node labels for imports.
func WithBlankGenerator(gen rdf.BlankGenerator) Option {
	return func(m *Manager) {
		m.blankGen = gen
	}
}

// WithMaxSolutions caps the rows of local queries. Zero is unbounded.
func WithMaxSolutions(n int) Option {
	return func(m *Manager) {
		m.maxSolutions = n
	}
}

// WithPrefixes declares namespaces on every store the manager creates.
func WithPrefixes(p rdf.PrefixMapping) Option {
	return func(m *Manager) {
		m.prefixes = p.Clone()
	}
}

// WithObjectStore enables s3:// imports and exports.
func WithObjectStore(c *objstore.Client) Option {
	return func(m *Manager) {
		m.objects = c
	}
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		root:     ".",
		timeouts: remote.DefaultTimeouts(),
		logger:   slog.Default(),
		blankGen: rdf.UUIDGenerator{},
		prefixes: rdf.PrefixMapping{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.engine = engine.New(
		engine.WithMaxSolutions(m.maxSolutions),
		engine.WithLogger(m.logger),
	)
	m.importer = codec.NewImporter(codec.WithBlankGenerator(m.blankGen))
	m.remote = remote.NewClient(
		remote.WithTimeouts(m.timeouts),
		remote.WithLogger(m.logger),
	)
	return m
}

// FromConfig creates a Manager from loaded configuration. Extra options
// are applied last.
func FromConfig(cfg *config.Config, logger *slog.Logger, extra ...Option) (*Manager, error) {
	opts := []Option{
		WithRoot(cfg.Root),
		WithTimeouts(remote.Timeouts{
			Connect: cfg.Timeouts.Connect(),
			Read:    cfg.Timeouts.Read(),
		}),
		WithLogger(logger),
		WithMaxSolutions(cfg.Query.MaxSolutions),
		WithPrefixes(rdf.PrefixMapping(cfg.Prefixes)),
	}
	if cfg.ObjectStore.Enabled() {
		oc, err := objstore.NewClient(objstore.Config{
			Endpoint:  cfg.ObjectStore.Endpoint,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
			Region:    cfg.ObjectStore.Region,
			UseSSL:    cfg.ObjectStore.UseSSL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		opts = append(opts, WithObjectStore(oc))
	}
	return New(append(opts, extra...)...), nil
}

// Close releases idle network connections. Stores are not closed.
func (m *Manager) Close() {
	m.remote.Close()
	if m.objects != nil {
		m.objects.Close()
	}
}

// Timeouts returns the network timeouts in use.
func (m *Manager) Timeouts() remote.Timeouts {
	return m.timeouts
}

// Root returns the directory relative paths resolve against.
func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.root, path)
}

// native returns the model of s or a BACKEND_MISMATCH error carrying msg.
func native(s graph.Store, msg string) (graph.Model, error) {
	if s == nil {
		return nil, graph.NewError(graph.ErrCodeBackendMismatch, msg, graph.ErrNoNativeModel)
	}
	model, err := s.Native()
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeBackendMismatch, msg, err)
	}
	return model, nil
}
