package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	fragio "github.com/OpenLiberty/open-liberty-sub391/pkg/io"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// manifestItem is one manifest file found in a directory.
type manifestItem struct {
	Path    string
	Module  string
	Entries int
	Err     error
}

// scanManifests lists the manifest files directly inside dir, sorted by name.
// Files that fail to decode are listed with their error.
func scanManifests(dir string) ([]manifestItem, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", dir)
	}
	var items []manifestItem
	for _, e := range ents {
		if e.IsDir() || !fragio.IsManifest(e.Name()) {
			continue
		}
		item := manifestItem{Path: filepath.Join(dir, e.Name())}
		if m, err := fragio.ImportManifest(item.Path); err != nil {
			item.Err = err
		} else {
			item.Module, item.Entries = m.Name, len(m.Entries)
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// resolveManifest turns the argument of a command into a manifest path. A
// directory with several manifests opens the picker when running in a
// terminal.
func resolveManifest(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", arg)
		}
		return "", err
	}
	if !info.IsDir() {
		return arg, nil
	}

	items, err := scanManifests(arg)
	if err != nil {
		return "", err
	}
	switch {
	case len(items) == 0:
		return "", errors.New(errors.ErrCodeNotFound, "no manifest files in %s", arg)
	case len(items) == 1:
		return items[0].Path, nil
	case !interactive():
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = filepath.Base(it.Path)
		}
		return "", errors.New(errors.ErrCodeInvalidInput,
			"%s holds several manifests (%s); name one", arg, strings.Join(names, ", "))
	}

	final, err := tea.NewProgram(NewManifestListModel(items)).Run()
	if err != nil {
		return "", fmt.Errorf("manifest picker: %w", err)
	}
	m := final.(ManifestListModel)
	if m.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no manifest selected")
	}
	return m.Selected.Path, nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// =============================================================================
// ManifestListModel - Interactive manifest selection
// =============================================================================

// ManifestListModel is the bubbletea model for interactive manifest selection.
type ManifestListModel struct {
	Items    []manifestItem
	Cursor   int
	Selected *manifestItem
	Height   int
	Offset   int
}

// NewManifestListModel creates a new manifest list model.
func NewManifestListModel(items []manifestItem) ManifestListModel {
	return ManifestListModel{Items: items, Height: 15}
}

func (m ManifestListModel) Init() tea.Cmd {
	return nil
}

func (m ManifestListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			item := m.Items[m.Cursor]
			if item.Err != nil {
				return m, nil
			}
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ManifestListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Manifest"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		module, entries := it.Module, strconv.Itoa(it.Entries)
		if it.Err != nil {
			module, entries = errors.UserMessage(it.Err), "-"
		}
		rows = append(rows, []string{cursor, filepath.Base(it.Path), module, entries})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Module", "Entries").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			switch {
			case m.Items[idx].Err != nil:
				return lipgloss.NewStyle().Foreground(colorDim)
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}
