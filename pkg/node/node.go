package node

import (
	"maps"
	"slices"
)

// Type is the closed set of node kinds.
type Type string

const (
	TypeFrame       Type = "frame"
	TypeText        Type = "text"
	TypeImage       Type = "image"
	TypeVideo       Type = "video"
	TypeViewport    Type = "viewport"
	TypePlaceholder Type = "placeholder"
)

// Valid reports whether t is one of the known node types.
func (t Type) Valid() bool {
	switch t {
	case TypeFrame, TypeText, TypeImage, TypeVideo, TypeViewport, TypePlaceholder:
		return true
	}
	return false
}

// IsMedia reports whether t is an image or video.
func (t Type) IsMedia() bool { return t == TypeImage || t == TypeVideo }

// IsContainer reports whether nodes of type t accept children.
func (t Type) IsContainer() bool { return t == TypeFrame || t == TypeViewport }

// Position is where a node goes relative to a target node.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// Valid reports whether p is before, after or inside.
func (p Position) Valid() bool { return p == Before || p == After || p == Inside }

// VariantInfo describes one interactive state variant of a dynamic node.
type VariantInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Trigger string `json:"trigger,omitempty"` // e.g. "hover", "click"
}

// Node is a single visual element. All node kinds share this flat record.
//
// The zero value is not usable; ID and Type must be set before insertion.
type Node struct {
	// Identity
	ID       string `json:"id"`
	SharedID string `json:"sharedId,omitempty"`
	Name     string `json:"name,omitempty"`

	// Structure
	ParentID      string  `json:"parentId,omitempty"`
	Type          Type    `json:"type"`
	IsViewport    bool    `json:"isViewport,omitempty"`
	ViewportWidth float64 `json:"viewportWidth,omitempty"`
	ViewportName  string  `json:"viewportName,omitempty"`

	// Geometry and style
	Style             Style           `json:"style,omitempty"`
	IndependentStyles map[string]bool `json:"independentStyles,omitempty"`

	// Dynamic variants
	DynamicFamilyID       string        `json:"dynamicFamilyId,omitempty"`
	VariantResponsiveID   string        `json:"variantResponsiveId,omitempty"`
	DynamicParentID       string        `json:"dynamicParentId,omitempty"`
	VariantParentID       string        `json:"variantParentId,omitempty"`
	IsTopLevelDynamicNode bool          `json:"isTopLevelDynamicNode,omitempty"`
	Variants              []VariantInfo `json:"variants,omitempty"`

	// Flags
	IsLocked   bool `json:"isLocked,omitempty"`
	InViewport bool `json:"inViewport,omitempty"`
	IsDynamic  bool `json:"isDynamic,omitempty"`
	IsVariant  bool `json:"isVariant,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.ParentID == "" }

// IsPlaceholder reports whether the node is a transient drag placeholder.
func (n *Node) IsPlaceholder() bool { return n.Type == TypePlaceholder }

// Independent reports whether prop is exempt from cross-viewport sync on n.
func (n *Node) Independent(prop string) bool { return n.IndependentStyles[prop] }

// Clone returns a deep copy of n. Style values that are maps or slices are
// copied one level deep, which covers every value shape the editor produces.
func (n *Node) Clone() *Node {
	c := *n
	c.Style = n.Style.Clone()
	if n.IndependentStyles != nil {
		c.IndependentStyles = maps.Clone(n.IndependentStyles)
	}
	if n.Variants != nil {
		c.Variants = slices.Clone(n.Variants)
	}
	return &c
}

// Style is the opaque property bag of a node.
type Style map[string]any

// Clone returns a copy of s. A nil style stays nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	c := make(Style, len(s))
	for k, v := range s {
		switch vv := v.(type) {
		case map[string]any:
			c[k] = maps.Clone(vv)
		case []any:
			c[k] = slices.Clone(vv)
		default:
			c[k] = v
		}
	}
	return c
}

// Length parses the value stored under key. Missing keys yield the zero Length.
func (s Style) Length(key string) Length {
	return ParseLength(s[key])
}

// Px returns the pixel value stored under key, or 0 when the key is missing
// or not expressed in pixels.
func (s Style) Px(key string) float64 {
	l := s.Length(key)
	if l.Unit != UnitPx {
		return 0
	}
	return l.Value
}

// String returns the string stored under key, or "".
func (s Style) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Style keys inspected by the core.
const (
	KeyPosition      = "position"
	KeyLeft          = "left"
	KeyTop           = "top"
	KeyWidth         = "width"
	KeyHeight        = "height"
	KeyRotate        = "rotate"
	KeyDisplay       = "display"
	KeyFlexDirection = "flexDirection"
)

// Position modes.
const (
	PositionAbsolute = "absolute"
	PositionRelative = "relative"
)

// IsAbsolute reports whether the node is absolutely positioned.
func (n *Node) IsAbsolute() bool { return n.Style.String(KeyPosition) == PositionAbsolute }

// Rotation returns the node rotation in degrees.
func (n *Node) Rotation() float64 { return n.Style.Length(KeyRotate).Value }

// Row reports whether the node lays out children along the x axis. Frames
// default to column layout.
func (n *Node) Row() bool {
	d := n.Style.String(KeyFlexDirection)
	return d == "row" || d == "row-reverse"
}
