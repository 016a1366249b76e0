package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/framewright/framewright/pkg/editor"
	"github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const browseHelp = "↑/↓ navigate  J/K move  h/l outdent/indent  D duplicate  x delete  u/r undo/redo  s sync  w save  q quit"

// =============================================================================
// TreeModel - Interactive tree editing
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	id    string
	depth int
}

// TreeModel is the bubbletea model for browsing and reordering a document.
// Every edit goes through the editor, so moves inside a viewport are
// propagated to its counterparts and can be undone.
type TreeModel struct {
	ed     *editor.Editor
	save   func() error
	rows   []treeRow
	Cursor int
	Height int
	Offset int
	Status string
	Dirty  bool
}

// NewTreeModel creates a tree model over ed. save persists the document.
func NewTreeModel(ed *editor.Editor, save func() error) TreeModel {
	m := TreeModel{ed: ed, save: save, Height: 20}
	m.rows = treeRows(ed.Store())
	return m
}

// treeRows flattens the tree in pre-order. Placeholders are hidden.
func treeRows(s *store.Store) []treeRow {
	var rows []treeRow
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if n, ok := s.Node(id); !ok || n.IsPlaceholder() {
			return
		}
		rows = append(rows, treeRow{id: id, depth: depth})
		for _, c := range s.Children(id) {
			walk(c, depth+1)
		}
	}
	for _, r := range s.Roots() {
		walk(r, 0)
	}
	return rows
}

// Selected returns the id under the cursor, or "".
func (m TreeModel) Selected() string {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.Cursor].id
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(m.Cursor - 1)
		case "down", "j":
			m.moveCursor(m.Cursor + 1)
		case "K", "shift+up":
			m.edit("move up", m.moveSibling(-1))
		case "J", "shift+down":
			m.edit("move down", m.moveSibling(1))
		case "h", "left":
			m.edit("outdent", m.outdent())
		case "l", "right":
			m.edit("indent", m.indent())
		case "D":
			m.edit("duplicate", m.duplicate())
		case "x", "delete":
			m.edit("delete", m.delete())
		case "u":
			if m.ed.Undo() {
				m.Dirty = true
			} else {
				m.Status = "nothing to undo"
			}
			m.refresh(m.Selected())
		case "r", "ctrl+r":
			if m.ed.Redo() {
				m.Dirty = true
			} else {
				m.Status = "nothing to redo"
			}
			m.refresh(m.Selected())
		case "s":
			stats, err := m.ed.Sync()
			m.edit("sync", err)
			if err == nil {
				m.Status = "synced: " + formatSyncStats(stats)
			}
		case "w":
			if m.save == nil {
				m.Status = "save unavailable"
				break
			}
			if err := m.save(); err != nil {
				m.Status = "save failed: " + errors.UserMessage(err)
				break
			}
			m.Dirty = false
			m.Status = "saved"
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveCursor(m.Cursor)
	}
	return m, nil
}

// edit records the outcome of an editing key.
func (m *TreeModel) edit(what string, err error) {
	if err != nil {
		m.Status = what + ": " + errors.UserMessage(err)
		return
	}
	m.Dirty = true
}

// refresh rebuilds the rows and keeps the cursor on id when it survived.
func (m *TreeModel) refresh(id string) {
	m.rows = treeRows(m.ed.Store())
	if i := slices.IndexFunc(m.rows, func(r treeRow) bool { return r.id == id }); i >= 0 {
		m.moveCursor(i)
		return
	}
	m.moveCursor(m.Cursor)
}

func (m *TreeModel) moveCursor(i int) {
	m.Cursor = max(0, min(i, len(m.rows)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// moveSibling swaps the selected node with its previous (dir < 0) or next
// sibling.
func (m *TreeModel) moveSibling(dir int) error {
	id := m.Selected()
	if id == "" {
		return nil
	}
	sibs, i := m.peers(id)
	i += dir
	if i < 0 || i >= len(sibs) {
		return nil
	}
	pos := node.Before
	if dir > 0 {
		pos = node.After
	}
	err := m.ed.Move(id, store.Target{ID: sibs[i], Position: pos})
	m.refresh(id)
	return err
}

// outdent moves the selected node after its parent.
func (m *TreeModel) outdent() error {
	id := m.Selected()
	n, ok := m.ed.Store().Node(id)
	if !ok || n.ParentID == "" {
		return nil
	}
	err := m.ed.Move(id, store.Target{ID: n.ParentID, Position: node.After})
	m.refresh(id)
	return err
}

// indent moves the selected node to the end of its previous sibling.
func (m *TreeModel) indent() error {
	id := m.Selected()
	if id == "" {
		return nil
	}
	sibs, i := m.peers(id)
	if i <= 0 {
		return nil
	}
	err := m.ed.Move(id, store.Target{ID: sibs[i-1], Position: node.Inside})
	m.refresh(id)
	return err
}

// peers returns the children of id's parent and the index of id among them.
func (m *TreeModel) peers(id string) ([]string, int) {
	s := m.ed.Store()
	n, ok := s.Node(id)
	if !ok {
		return nil, -1
	}
	return s.Children(n.ParentID), s.IndexOf(id)
}

func (m *TreeModel) duplicate() error {
	id := m.Selected()
	if id == "" {
		return nil
	}
	dup, err := m.ed.Duplicate(id)
	if err != nil {
		return err
	}
	m.refresh(dup)
	return nil
}

func (m *TreeModel) delete() error {
	id := m.Selected()
	if id == "" {
		return nil
	}
	err := m.ed.Delete(id)
	m.refresh("")
	return err
}

func (m TreeModel) View() string {
	var b strings.Builder

	title := "Document"
	if m.Dirty {
		title += " (modified)"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(browseHelp))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty document)"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.rows))
	s := m.ed.Store()
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		n, _ := s.Node(r.id)

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := strings.Repeat("  ", r.depth) + displayName(n)
		if n.IsViewport {
			line += fmt.Sprintf(" (%gpx)", n.ViewportWidth)
		}
		b.WriteString(cursor + style.Render(line) + " " + styleType.Render(string(n.Type)))
		if n.IsLocked {
			b.WriteString(" " + styleIconWarning.Render(iconLocked))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))
	if labels := m.ed.History().Labels(); len(labels) > 0 {
		footer += "  undo: " + labels[len(labels)-1]
	}
	b.WriteString(listDimStyle.Render(footer))
	if m.Status != "" {
		b.WriteString("  " + StyleWarning.Render(m.Status))
	}

	return b.String()
}
