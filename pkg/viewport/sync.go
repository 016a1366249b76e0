package viewport

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/observability"
	"github.com/framewright/framewright/pkg/store"
)

// ErrNotViewport is returned when the sync source is not a viewport root.
var ErrNotViewport = errors.New("not a viewport")

// Stats counts the changes a sync pass made across all target viewports.
type Stats struct {
	Created int `json:"created"`
	Removed int `json:"removed"`
	Moved   int `json:"moved"`
	Updated int `json:"updated"`
}

// Changed reports whether the pass changed anything.
func (s Stats) Changed() bool { return s != Stats{} }

func (s *Stats) add(o Stats) {
	s.Created += o.Created
	s.Removed += o.Removed
	s.Moved += o.Moved
	s.Updated += o.Updated
}

// Syncer propagates one viewport's structure and styles to the others.
type Syncer struct {
	store  *store.Store
	logger *log.Logger
}

// NewSyncer creates a Syncer for s. A nil logger uses the store's logger.
func NewSyncer(s *store.Store, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = s.Logger()
	}
	return &Syncer{store: s, logger: logger}
}

// SyncViewports pushes from the primary (widest) viewport to all others.
// A document without viewports is left untouched.
func (sy *Syncer) SyncViewports() (Stats, error) {
	src := sy.store.PrimaryViewport()
	if src == "" {
		return Stats{}, nil
	}
	return sy.SyncFromViewport(src)
}

// SyncFromViewport pushes from the viewport src to every other viewport.
func (sy *Syncer) SyncFromViewport(src string) (Stats, error) {
	start := time.Now()
	var stats Stats

	n, ok := sy.store.Node(src)
	if !ok || !n.IsViewport {
		err := fmt.Errorf("%w: %s", ErrNotViewport, src)
		observability.Sync().OnSync(src, 0, 0, 0, 0, time.Since(start), err)
		return stats, err
	}

	err := sy.store.Batch("sync", func() error {
		if err := sy.assignSharedIDs(src); err != nil {
			return err
		}
		for _, vp := range sy.store.Viewports() {
			if vp == src {
				continue
			}
			st, err := sy.syncInto(src, vp)
			if err != nil {
				return fmt.Errorf("sync %s -> %s: %w", src, vp, err)
			}
			stats.add(st)
		}
		return nil
	})
	if err != nil {
		sy.logger.Warn("viewport sync failed", "source", src, "err", err)
		stats = Stats{}
	} else if stats.Changed() {
		sy.logger.Debug("viewports synced", "source", src,
			"created", stats.Created, "removed", stats.Removed, "moved", stats.Moved, "updated", stats.Updated)
	}
	observability.Sync().OnSync(src, stats.Created, stats.Removed, stats.Moved, stats.Updated, time.Since(start), err)
	return stats, err
}

func (sy *Syncer) assignSharedIDs(src string) error {
	for _, id := range sy.store.Descendants(src) {
		n, _ := sy.store.Node(id)
		if n.SharedID != "" || n.IsPlaceholder() {
			continue
		}
		sid := sy.store.NewID()
		if err := sy.store.Update(id, func(n *node.Node) { n.SharedID = sid }); err != nil {
			return err
		}
	}
	return nil
}

func (sy *Syncer) syncInto(src, vp string) (Stats, error) {
	var stats Stats
	s := sy.store

	// counterpart resolves a source id to its node in vp
	counterpart := func(id string) (string, bool) {
		if id == src {
			return vp, true
		}
		n, ok := s.Node(id)
		if !ok {
			return "", false
		}
		return s.CounterpartIn(n.SharedID, vp)
	}

	sourceShared := make(map[string]bool)
	for _, id := range s.Descendants(src) {
		sn, _ := s.Node(id)
		if sn.IsPlaceholder() {
			continue
		}
		sourceShared[sn.SharedID] = true

		parent, ok := counterpart(sn.ParentID)
		if !ok {
			return stats, fmt.Errorf("%w: no counterpart for parent of %s", store.ErrNotFound, id)
		}

		tid, exists := s.CounterpartIn(sn.SharedID, vp)
		if !exists {
			if err := sy.create(sn, parent, vp, counterpart); err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}

		tn, _ := s.Node(tid)
		if tn.ParentID != parent {
			if err := s.MoveToIndex(tid, parent, -1); err != nil {
				return stats, err
			}
			stats.Moved++
		}
		changed, err := sy.update(sn, tid, counterpart)
		if err != nil {
			return stats, err
		}
		if changed {
			stats.Updated++
		}
	}

	// drop target nodes the source no longer has
	for _, id := range s.Descendants(vp) {
		tn, ok := s.Node(id)
		if !ok || tn.IsPlaceholder() || sourceShared[tn.SharedID] && tn.SharedID != "" {
			continue
		}
		removed := len(s.Subtree(id))
		if err := s.RemoveLocal(id); err != nil {
			return stats, err
		}
		stats.Removed += removed
	}

	// align sibling order, parents first
	for _, sp := range append([]string{src}, s.Descendants(src)...) {
		tp, ok := counterpart(sp)
		if !ok {
			continue
		}
		var want []string
		for _, c := range s.Children(sp) {
			if tc, ok := counterpart(c); ok {
				want = append(want, tc)
			}
		}
		for i, tc := range want {
			if kids := s.Children(tp); i < len(kids) && kids[i] == tc {
				continue
			}
			if err := s.MoveToIndex(tc, tp, i); err != nil {
				return stats, err
			}
			stats.Moved++
		}
	}
	return stats, nil
}

// create clones sn into parent (inside viewport vp), after the counterpart
// of its nearest preceding sibling.
func (sy *Syncer) create(sn *node.Node, parent, vp string, counterpart func(string) (string, bool)) error {
	s := sy.store
	index := 0
	siblings := s.Children(sn.ParentID)
	for i := s.IndexOf(sn.ID) - 1; i >= 0; i-- {
		if cp, ok := counterpart(siblings[i]); ok {
			if cpn, _ := s.Node(cp); cpn.ParentID == parent {
				index = s.IndexOf(cp) + 1
				break
			}
		}
	}

	c := sn.Clone()
	c.ID = s.NewID()
	c.ParentID = parent
	c.IndependentStyles = nil
	c.DynamicParentID = mapRef(c.DynamicParentID, counterpart)
	c.VariantParentID = mapRef(c.VariantParentID, counterpart)
	return s.InsertAtIndex(*c, index, parent)
}

// update copies the synced fields of sn onto the counterpart tid.
func (sy *Syncer) update(sn *node.Node, tid string, counterpart func(string) (string, bool)) (bool, error) {
	tn, _ := sy.store.Node(tid)
	next := tn.Clone()

	skip := func(k string) bool { return tn.Independent(k) || sn.Independent(k) }
	for k, v := range sn.Style {
		if skip(k) {
			continue
		}
		if next.Style == nil {
			next.Style = node.Style{}
		}
		next.Style[k] = v
	}
	for k := range tn.Style {
		if _, ok := sn.Style[k]; !ok && !skip(k) {
			delete(next.Style, k)
		}
	}
	if len(next.Style) == 0 {
		next.Style = nil
	}
	next.Type = sn.Type
	next.Name = sn.Name
	next.DynamicFamilyID = sn.DynamicFamilyID
	next.VariantResponsiveID = sn.VariantResponsiveID
	next.IsDynamic = sn.IsDynamic
	next.IsVariant = sn.IsVariant
	next.IsTopLevelDynamicNode = sn.IsTopLevelDynamicNode
	next.DynamicParentID = mapRef(sn.DynamicParentID, counterpart)
	next.VariantParentID = mapRef(sn.VariantParentID, counterpart)

	if reflect.DeepEqual(tn, next) {
		return false, nil
	}
	err := sy.store.Update(tid, func(n *node.Node) { *n = *next.Clone() })
	return err == nil, err
}

// mapRef rewrites a reference to a source node into the matching target
// node. References without a counterpart are kept.
func mapRef(id string, counterpart func(string) (string, bool)) string {
	if id == "" {
		return ""
	}
	if cp, ok := counterpart(id); ok {
		return cp
	}
	return id
}
