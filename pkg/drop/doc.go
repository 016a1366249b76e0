// Package drop decides where a dragged node would land for a given cursor
// position.
//
// The [Resolver] is pure: it reads the node tree and the rectangles the
// caller measured before the tick, and never mutates anything. Missing
// nodes or rectangles degrade to "no target" (free canvas) instead of
// failing.
//
// Decision order for the node under the cursor:
//
//  1. A media node (image, video) within 40% of min(width, height) of its
//     center accepts the drop "inside". The drag controller converts it to
//     a frame on commit.
//  2. The deepest frame under the cursor that has flow children partitions
//     them along its layout axis; the child under (or after) the cursor is
//     the target, "before" or "after" depending on the midline. Near the
//     midline of the previous target the movement direction decides, which
//     stops the indicator from flickering.
//  3. An empty frame accepts the drop "inside".
//  4. A node at the canvas root is targeted "before" or "after" depending
//     on the vertical half under the cursor.
//  5. Otherwise there is no target.
//
// Absolutely positioned children never take part in flow ordering. Dynamic
// nodes resolve to the top-level node of their family and never accept
// "inside", unless the editor is in edit mode for that family.
package drop
