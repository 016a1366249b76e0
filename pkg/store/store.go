package store

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/framewright/framewright/pkg/node"
)

// Store is the node arena of one document.
//
// The zero value is not usable - use New.
type Store struct {
	nodes    map[string]*node.Node
	children map[string][]string // parent id ("" for roots) -> ordered child ids

	// correlation tables
	shared   map[string][]string // sharedID -> node ids
	families map[string][]string // dynamicFamilyID -> node ids
	variants map[string][]string // variantResponsiveID -> node ids

	logger *log.Logger
	newID  func() string

	subs    []*subscriber
	nextSub int

	tx        *tx
	transient *tx
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected mutations.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the default UUID generator. Tests use this to
// get predictable ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		nodes:    make(map[string]*node.Node),
		children: make(map[string][]string),
		shared:   make(map[string][]string),
		families: make(map[string][]string),
		variants: make(map[string][]string),
		logger:   log.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh identifier from the store's generator.
func (s *Store) NewID() string { return s.newID() }

// Logger returns the store's logger.
func (s *Store) Logger() *log.Logger { return s.logger }

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.nodes) }

// Node returns the node with the given id. The returned pointer refers to
// the stored record and must be treated as read-only; use the mutation API
// to change it.
func (s *Store) Node(id string) (*node.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Has reports whether a node with the given id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Children returns the ordered child ids of parentID. Pass "" for the roots.
// The returned slice is a read-only view.
func (s *Store) Children(parentID string) []string { return s.children[parentID] }

// Roots returns the ordered root ids.
func (s *Store) Roots() []string { return s.children[""] }

// IndexOf returns the position of id among its siblings, or -1.
func (s *Store) IndexOf(id string) int {
	n, ok := s.nodes[id]
	if !ok {
		return -1
	}
	return slices.Index(s.children[n.ParentID], id)
}

// Siblings returns the ids sharing id's parent, excluding id itself.
func (s *Store) Siblings(id string) []string {
	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	var out []string
	for _, c := range s.children[n.ParentID] {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every descendant of id in pre-order, excluding id.
func (s *Store) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(p string) {
		for _, c := range s.children[p] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Subtree returns id followed by its descendants in pre-order.
func (s *Store) Subtree(id string) []string {
	if !s.Has(id) {
		return nil
	}
	return append([]string{id}, s.Descendants(id)...)
}

// Ancestors returns the parent chain of id from the parent up to the root.
func (s *Store) Ancestors(id string) []string {
	var out []string
	n, ok := s.nodes[id]
	for ok && n.ParentID != "" {
		out = append(out, n.ParentID)
		n, ok = s.nodes[n.ParentID]
		if len(out) > len(s.nodes) {
			break // corrupted parent chain
		}
	}
	return out
}

// IsAncestor reports whether ancestor is a strict ancestor of id.
func (s *Store) IsAncestor(ancestor, id string) bool {
	return slices.Contains(s.Ancestors(id), ancestor)
}

// Root returns the root of the tree containing id.
func (s *Store) Root(id string) string {
	if a := s.Ancestors(id); len(a) > 0 {
		return a[len(a)-1]
	}
	if s.Has(id) {
		return id
	}
	return ""
}

// ViewportOf returns the viewport root containing id (the viewport itself
// for a viewport id), or "" for free canvas nodes.
func (s *Store) ViewportOf(id string) string {
	r := s.Root(id)
	if n, ok := s.nodes[r]; ok && n.IsViewport {
		return r
	}
	return ""
}

// Viewports returns viewport root ids ordered by width, widest first.
func (s *Store) Viewports() []string {
	var out []string
	for _, id := range s.children[""] {
		if s.nodes[id].IsViewport {
			out = append(out, id)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		wa, wb := s.nodes[a].ViewportWidth, s.nodes[b].ViewportWidth
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})
	return out
}

// PrimaryViewport returns the widest viewport (desktop), or "".
func (s *Store) PrimaryViewport() string {
	if v := s.Viewports(); len(v) > 0 {
		return v[0]
	}
	return ""
}

// CounterpartIn returns the node carrying sharedID inside viewportID.
func (s *Store) CounterpartIn(sharedID, viewportID string) (string, bool) {
	if sharedID == "" || viewportID == "" {
		return "", false
	}
	for _, id := range s.shared[sharedID] {
		if s.ViewportOf(id) == viewportID {
			return id, true
		}
	}
	return "", false
}

// Counterparts returns the nodes sharing id's shared id in other viewports,
// keyed by viewport id. Nodes outside any viewport have none.
func (s *Store) Counterparts(id string) map[string]string {
	n, ok := s.nodes[id]
	if !ok || n.SharedID == "" {
		return nil
	}
	own := s.ViewportOf(id)
	if own == "" {
		return nil
	}
	out := make(map[string]string)
	for _, other := range s.shared[n.SharedID] {
		if other == id {
			continue
		}
		if vp := s.ViewportOf(other); vp != "" && vp != own {
			out[vp] = other
		}
	}
	return out
}

// Shared returns every node carrying sharedID.
func (s *Store) Shared(sharedID string) []string { return slices.Clone(s.shared[sharedID]) }

// Family returns every node of a dynamic family.
func (s *Store) Family(familyID string) []string { return slices.Clone(s.families[familyID]) }

// VariantGroup returns the equivalent variant nodes across viewports.
func (s *Store) VariantGroup(variantResponsiveID string) []string {
	return slices.Clone(s.variants[variantResponsiveID])
}

// TopLevelDynamic resolves id to the top-level node of its dynamic family.
// Non-dynamic nodes resolve to themselves.
func (s *Store) TopLevelDynamic(id string) string {
	n, ok := s.nodes[id]
	if !ok || !n.IsDynamic || n.IsTopLevelDynamicNode {
		return id
	}
	for _, a := range s.Ancestors(id) {
		an := s.nodes[a]
		if an.IsTopLevelDynamicNode && an.DynamicFamilyID == n.DynamicFamilyID {
			return a
		}
	}
	return id
}

// NodesOfType returns the ids of all nodes of type t in tree order.
func (s *Store) NodesOfType(t node.Type) []string {
	var out []string
	s.walk("", func(n *node.Node) {
		if n.Type == t {
			out = append(out, n.ID)
		}
	})
	return out
}

// Placeholders returns the ids of all placeholder nodes.
func (s *Store) Placeholders() []string { return s.NodesOfType(node.TypePlaceholder) }

// Snapshot returns deep copies of all nodes in tree order (pre-order, roots
// first, siblings in order). Loading a snapshot reproduces the tree.
func (s *Store) Snapshot() []node.Node {
	out := make([]node.Node, 0, len(s.nodes))
	s.walk("", func(n *node.Node) {
		out = append(out, *n.Clone())
	})
	return out
}

func (s *Store) walk(parent string, fn func(*node.Node)) {
	for _, id := range s.children[parent] {
		fn(s.nodes[id])
		s.walk(id, fn)
	}
}

// =============================================================================
// Correlation tables
// =============================================================================

func (s *Store) index(n *node.Node) {
	if n.SharedID != "" {
		s.shared[n.SharedID] = append(s.shared[n.SharedID], n.ID)
	}
	if n.DynamicFamilyID != "" {
		s.families[n.DynamicFamilyID] = append(s.families[n.DynamicFamilyID], n.ID)
	}
	if n.VariantResponsiveID != "" {
		s.variants[n.VariantResponsiveID] = append(s.variants[n.VariantResponsiveID], n.ID)
	}
}

func (s *Store) unindex(n *node.Node) {
	drop := func(m map[string][]string, key string) {
		if key == "" {
			return
		}
		ids := slices.DeleteFunc(m[key], func(id string) bool { return id == n.ID })
		if len(ids) == 0 {
			delete(m, key)
			return
		}
		m[key] = ids
	}
	drop(s.shared, n.SharedID)
	drop(s.families, n.DynamicFamilyID)
	drop(s.variants, n.VariantResponsiveID)
}
