package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/media"
)

// PickerResult holds the outcome of the picker.
type PickerResult struct {
	Path      string
	Title     string // empty for plain files
	Color     string // empty for plain files
	Cancelled bool
}

type presetItem struct {
	preset config.Preset
}

func (i presetItem) Title() string       { return i.preset.Title }
func (i presetItem) Description() string { return i.preset.File }
func (i presetItem) FilterValue() string { return i.preset.Title }

type fileItem struct {
	dir  string
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

// PickerModel is the Bubbletea model for the track menu: presets first,
// then audio files in the current directory.
type PickerModel struct {
	list   list.Model
	status string // error from the previous session, shown above the list
	result *PickerResult
	err    error
}

// NewPicker creates a picker listing presets and the audio files in dir.
func NewPicker(presets []config.Preset, dir string) PickerModel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PickerModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := make([]list.Item, 0, len(presets)+len(entries))
	for _, p := range presets {
		items = append(items, presetItem{preset: p})
	}

	var files []fileItem
	for _, e := range entries {
		if e.IsDir() || !media.IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		ext := filepath.Ext(e.Name())
		files = append(files, fileItem{dir: dir, name: strings.TrimSuffix(e.Name(), ext), ext: ext})
	}
	sort.Slice(files, func(a, b int) bool { return files[a].name < files[b].name })
	for _, f := range files {
		items = append(items, f)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "specviz"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return PickerModel{list: l}
}

// WithStatus returns m showing msg above the list.
func (m PickerModel) WithStatus(msg string) PickerModel {
	m.status = msg
	return m
}

// HasError returns true if the picker could not be initialized.
func (m PickerModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m PickerModel) Error() error {
	return m.err
}

// Result returns the picker result after the program finishes.
func (m PickerModel) Result() PickerResult {
	if m.result != nil {
		return *m.result
	}
	return PickerResult{Cancelled: true}
}

func (m PickerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("specviz")
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case presetItem:
				m.result = &PickerResult{Path: item.preset.File, Title: item.preset.Title, Color: item.preset.Color}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			case fileItem:
				m.result = &PickerResult{Path: filepath.Join(item.dir, item.name+item.ext)}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
		case "q", "esc", "ctrl+c":
			m.result = &PickerResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(max(msg.Height-m.statusRows(), 1))
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) statusRows() int {
	if m.status == "" {
		return 0
	}
	return 2
}

func (m PickerModel) View() string {
	if m.status == "" {
		return m.list.View()
	}
	return "  " + errorStyle.Render(m.status) + "\n\n" + m.list.View()
}
