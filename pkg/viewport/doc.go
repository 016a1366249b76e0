// Package viewport keeps the responsive viewport subtrees of a document in
// step with each other.
//
// Every node inside a viewport carries a shared id; the nodes with the same
// shared id in different viewports are counterparts. A [Syncer] pushes the
// structure and styles of one source viewport onto all others:
//
//   - source nodes without a shared id get a fresh one
//   - missing counterparts are cloned (fresh id, same shared id) into the
//     equivalent parent, after the counterpart of the preceding sibling
//   - counterparts under the wrong parent are moved, and sibling order is
//     re-aligned with the source
//   - style properties are copied, deletions included, unless the
//     property is flagged independent on either node
//   - target nodes whose shared id no longer exists in the source are
//     removed, without cascading back into the source
//
// A sync pass runs in one store batch labelled "sync". Running it twice in
// a row changes nothing the second time.
package viewport
