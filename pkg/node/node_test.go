package node

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   any
		want Length
	}{
		{nil, Length{}},
		{float64(12), Length{12, UnitPx}},
		{42, Length{42, UnitPx}},
		{json.Number("7.5"), Length{7.5, UnitPx}},
		{"100px", Length{100, UnitPx}},
		{" 50% ", Length{50, UnitPercent}},
		{"20vw", Length{20, UnitVW}},
		{"10vh", Length{10, UnitVH}},
		{"45deg", Length{45, UnitDeg}},
		{"fill", Length{Unit: UnitFill}},
		{"auto", Length{Unit: UnitAuto}},
		{"300", Length{300, UnitPx}},
		{"abcpx", Length{}},
		{"NaN", Length{}},
		{true, Length{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			if got := ParseLength(tt.in); got != tt.want {
				t.Errorf("ParseLength(%#v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLengthToPx(t *testing.T) {
	tests := []struct {
		l    Length
		want float64
	}{
		{Length{10, UnitPx}, 10},
		{Length{50, UnitPercent}, 200},
		{Length{10, UnitVW}, 144},
		{Length{Unit: UnitFill}, 400},
		{Length{Unit: UnitAuto}, 0},
	}
	for _, tt := range tests {
		if got := tt.l.ToPx(400, 1440, 900); got != tt.want {
			t.Errorf("%v.ToPx = %v, want %v", tt.l, got, tt.want)
		}
	}
}

func TestPx(t *testing.T) {
	if got := Px(120); got != "120px" {
		t.Errorf("Px(120) = %q, want 120px", got)
	}
	if got := Px(12.5); got != "12.5px" {
		t.Errorf("Px(12.5) = %q, want 12.5px", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := &Node{
		ID:                "a",
		Type:              TypeFrame,
		Style:             Style{"left": "10px", "shadow": map[string]any{"x": 1}},
		IndependentStyles: map[string]bool{"left": true},
		Variants:          []VariantInfo{{ID: "v1"}},
	}
	c := n.Clone()
	c.Style["left"] = "20px"
	c.Style["shadow"].(map[string]any)["x"] = 2
	c.IndependentStyles["left"] = false
	c.Variants[0].ID = "v2"

	if n.Style["left"] != "10px" {
		t.Error("Clone shares style map")
	}
	if n.Style["shadow"].(map[string]any)["x"] != 1 {
		t.Error("Clone shares nested style map")
	}
	if !n.IndependentStyles["left"] {
		t.Error("Clone shares independent styles")
	}
	if n.Variants[0].ID != "v1" {
		t.Error("Clone shares variants")
	}
}

func TestRekeyConsistent(t *testing.T) {
	nodes := []*Node{
		{ID: "p", SharedID: "s1", Type: TypeFrame, DynamicFamilyID: "fam", ParentID: "outside"},
		{ID: "c", SharedID: "s2", ParentID: "p", Type: TypeText, DynamicFamilyID: "fam",
			DynamicParentID: "p", Variants: []VariantInfo{{ID: "var"}}},
	}
	i := 0
	gen := func() string { i++; return fmt.Sprintf("n%d", i) }

	out, mapping := Rekey(nodes, gen)

	if out[0].ID == "p" || out[1].ID == "c" {
		t.Fatal("ids were not re-keyed")
	}
	if out[1].ParentID != out[0].ID {
		t.Errorf("child ParentID = %q, want %q", out[1].ParentID, out[0].ID)
	}
	if out[0].ParentID != "outside" {
		t.Errorf("external parent rewritten to %q", out[0].ParentID)
	}
	if out[0].DynamicFamilyID != out[1].DynamicFamilyID || out[0].DynamicFamilyID == "fam" {
		t.Errorf("family ids not consistently re-keyed: %q %q", out[0].DynamicFamilyID, out[1].DynamicFamilyID)
	}
	if out[1].DynamicParentID != out[0].ID {
		t.Errorf("DynamicParentID = %q, want %q", out[1].DynamicParentID, out[0].ID)
	}
	if out[1].Variants[0].ID != mapping["var"] {
		t.Errorf("variant id = %q, want %q", out[1].Variants[0].ID, mapping["var"])
	}
	if nodes[0].ID != "p" {
		t.Error("Rekey mutated its input")
	}
}

func TestNodeRow(t *testing.T) {
	n := &Node{Style: Style{KeyFlexDirection: "row"}}
	if !n.Row() {
		t.Error("Row() = false, want true")
	}
	n.Style[KeyFlexDirection] = "column"
	if n.Row() {
		t.Error("Row() = true, want false")
	}
}
