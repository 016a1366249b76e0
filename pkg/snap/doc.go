// Package snap computes alignment and equal-spacing snaps for nodes being
// dragged on the canvas.
//
// # Overview
//
// All inputs are canvas-space rectangles (post pan/zoom). The engine never
// reads layout itself: callers capture the rectangles first and pass them
// in as [Candidate] values, which keeps every decision reproducible.
//
// [Engine.FindNearestSnaps] compares up to six values of the dragged node
// ([Points]: left, right, centerX, top, bottom, centerY) with the same-type
// edges of every candidate. The closest match strictly under the threshold
// wins; on a tie the first match in scan order is kept, so results depend
// only on the order of the candidate slice.
//
// Vertical snaps align x positions (a vertical guide line), horizontal snaps
// align y positions. The two axes are decided independently.
//
// # Equal Spacing
//
// Along each axis the engine also proposes "distribute" snaps: centering the
// node between its nearest neighbour on each side, or repeating the gap
// between the nearest neighbour and the one beyond it. Only neighbours that
// overlap the node on the other axis count. An edge snap beats a distribute
// snap at equal distance.
//
// # Stable Pass
//
// [Engine.Resolve] snaps a rectangle, then recomputes from the snapped
// position. The second result is authoritative so that guides do not flicker
// while the pointer moves by sub-pixel amounts.
//
// At drag commit, [Release] pulls the final ghost position onto any active
// snap axis within a small tolerance.
package snap
