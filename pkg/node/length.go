package node

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/framewright/framewright/pkg/geom"
)

// Unit is the unit of a CSS-like length.
type Unit string

const (
	UnitNone    Unit = ""
	UnitPx      Unit = "px"
	UnitPercent Unit = "%"
	UnitVW      Unit = "vw"
	UnitVH      Unit = "vh"
	UnitDeg     Unit = "deg"
	UnitFill    Unit = "fill"
	UnitAuto    Unit = "auto"
)

// Length is a parsed style value.
type Length struct {
	Value float64
	Unit  Unit
}

// Relative reports whether the length depends on its containing block or
// the viewport, so it would change meaning if the node changed container.
func (l Length) Relative() bool {
	switch l.Unit {
	case UnitPercent, UnitVW, UnitVH, UnitFill:
		return true
	}
	return false
}

// String formats l the way it is stored in a Style.
func (l Length) String() string {
	switch l.Unit {
	case UnitFill, UnitAuto:
		return string(l.Unit)
	case UnitNone:
		return strconv.FormatFloat(l.Value, 'f', -1, 64)
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// ToPx resolves l against a containing block size and viewport size. Fill
// resolves to the full containing block. Auto and unknown units resolve to 0.
func (l Length) ToPx(container, viewportW, viewportH float64) float64 {
	switch l.Unit {
	case UnitPx, UnitNone, UnitDeg:
		return l.Value
	case UnitPercent:
		return container * l.Value / 100
	case UnitVW:
		return viewportW * l.Value / 100
	case UnitVH:
		return viewportH * l.Value / 100
	case UnitFill:
		return container
	}
	return 0
}

// Px returns the canonical stored form of a pixel value, e.g. "120px".
// Non-finite input is stored as "0px".
func Px(v float64) string {
	return Length{Value: geom.Num(v), Unit: UnitPx}.String()
}

var suffixes = []Unit{UnitPx, UnitPercent, UnitVW, UnitVH, UnitDeg}

// ParseLength parses a style value. Numbers are pixels. Strings may carry a
// px, %, vw, vh or deg suffix, or be "fill" or "auto". Anything unparseable
// yields a zero length; the result never holds NaN.
func ParseLength(v any) Length {
	switch x := v.(type) {
	case nil:
		return Length{}
	case float64:
		return Length{Value: geom.Num(x), Unit: UnitPx}
	case float32:
		return Length{Value: geom.Num(float64(x)), Unit: UnitPx}
	case int:
		return Length{Value: float64(x), Unit: UnitPx}
	case int64:
		return Length{Value: float64(x), Unit: UnitPx}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Length{}
		}
		return Length{Value: geom.Num(f), Unit: UnitPx}
	case string:
		return parseLengthString(x)
	}
	return Length{}
}

func parseLengthString(s string) Length {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Length{}
	case string(UnitFill):
		return Length{Unit: UnitFill}
	case string(UnitAuto):
		return Length{Unit: UnitAuto}
	}
	unit := UnitPx
	for _, u := range suffixes {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			s = strings.TrimSpace(strings.TrimSuffix(s, string(u)))
			break
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || geom.Num(f) != f {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
