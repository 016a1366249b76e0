// Package geom provides the small amount of 2D geometry the editor core needs
// for hit testing, snapping and drag math.
//
// All values are float64 pixels in canvas space unless noted otherwise. The
// editor never lets NaN or Inf escape into committed style: [Num] and
// [Rect.Sanitize] collapse non-finite values to 0.
//
// # Coordinate Spaces
//
// Pointer events arrive in screen space. The canvas is panned and zoomed, so
// [Transform.ToCanvas] maps a screen point into the canvas space that node
// geometry, snapping and drop resolution work in.
package geom
