package nodelink

import (
	"strings"
	"testing"

	"github.com/framewright/framewright/pkg/node"
)

func sampleNodes() []node.Node {
	return []node.Node{
		{ID: "desktop", Type: node.TypeViewport, IsViewport: true, ViewportWidth: 1440, ViewportName: "Desktop"},
		{ID: "d-hero", ParentID: "desktop", SharedID: "hero", Type: node.TypeFrame, Style: node.Style{"width": "50%"}},
		{ID: "mobile", Type: node.TypeViewport, IsViewport: true, ViewportWidth: 375},
		{ID: "m-hero", ParentID: "mobile", SharedID: "hero", Type: node.TypeFrame,
			Style: node.Style{"width": "100%"}, IndependentStyles: map[string]bool{"width": true}},
		{ID: "note", Type: node.TypeText, IsLocked: true},
		{ID: "ph", ParentID: "d-hero", Type: node.TypePlaceholder},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleNodes(), Options{})

	for _, want := range []string{
		"digraph G",
		`subgraph "cluster_desktop"`,
		`label="Desktop (1440px)"`,
		`subgraph "cluster_mobile"`,
		`label="mobile (375px)"`,
		`"desktop" -> "d-hero"`,
		`"mobile" -> "m-hero"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, `"ph"`) {
		t.Error("ToDOT() output contains placeholder")
	}
	if strings.Contains(dot, "dir=none") {
		t.Error("ToDOT() drew counterpart edges without Counterparts")
	}
}

func TestToDOT_FreeNodesOutsideClusters(t *testing.T) {
	dot := ToDOT(sampleNodes(), Options{})
	last := strings.LastIndex(dot, "  }\n")
	note := strings.Index(dot, `"note" [`)
	if note < 0 || note < last {
		t.Errorf("free node not declared after the clusters:\n%s", dot)
	}
}

func TestToDOT_Counterparts(t *testing.T) {
	dot := ToDOT(sampleNodes(), Options{Counterparts: true})
	if !strings.Contains(dot, `"d-hero" -> "m-hero" [style=dashed, dir=none`) {
		t.Errorf("ToDOT() missing counterpart edge:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleNodes(), Options{Detailed: true})
	if !strings.Contains(dot, "type: frame") {
		t.Error("ToDOT() detailed output missing type")
	}
	if !strings.Contains(dot, "width: 100% *") {
		t.Error("ToDOT() detailed output missing independent marker")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		n        node.Node
		detailed bool
		want     string
	}{
		{"id", node.Node{ID: "a", Type: node.TypeText}, false, "a"},
		{"name", node.Node{ID: "a", Name: "Title", Type: node.TypeText}, false, "Title"},
		{"detailed", node.Node{ID: "a", Type: node.TypeText, Style: node.Style{"top": "4px", "left": "2px"}}, true,
			"a\ntype: text\nleft: 2px\ntop: 4px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.n, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		name string
		n    node.Node
		want []string
	}{
		{"plain", node.Node{ID: "a", Type: node.TypeFrame}, []string{`label="a"`}},
		{"viewport", node.Node{ID: "v", Type: node.TypeViewport, IsViewport: true}, []string{`label="v"`, "shape=folder"}},
		{"locked", node.Node{ID: "a", IsLocked: true}, []string{`label="a"`, "fillcolor=lightgrey"}},
		{"dynamic", node.Node{ID: "a", IsDynamic: true}, []string{`label="a"`, `style="rounded,filled,dashed"`}},
		{"top-level dynamic", node.Node{ID: "a", IsDynamic: true, IsTopLevelDynamicNode: true},
			[]string{`label="a"`, `style="rounded,filled,bold"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmtAttrs(tt.n, tt.n.ID)
			if strings.Join(got, ", ") != strings.Join(tt.want, ", ") {
				t.Errorf("fmtAttrs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sampleNodes(), Options{Counterparts: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
