package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/specviz/internal/config"
)

var testPresets = []config.Preset{
	{Title: "MISSION: IMPOSSIBLE", File: "lib/mission_impossible.mp3", Color: "255,0,0"},
	{Title: "JURASSIC PARK", File: "lib/jurassic_park.mp3", Color: "255,69,0"},
}

func TestPickerPresetSelectionStoresResult(t *testing.T) {
	m := NewPicker(testPresets, tempDirWith(t, nil))
	if m.HasError() {
		t.Fatalf("unexpected error: %v", m.Error())
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(PickerModel)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(PickerModel)
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	want := PickerResult{Path: "lib/jurassic_park.mp3", Title: "JURASSIC PARK", Color: "255,69,0"}
	if got := m.Result(); got != want {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPickerFileSelectionStoresResult(t *testing.T) {
	dir := tempDirWith(t, map[string]string{
		"song.mp3":  "data",
		"notes.txt": "data",
		"a.flac":    "data",
	})
	m := NewPicker(testPresets, dir)

	if n := len(m.list.Items()); n != 4 {
		t.Fatalf("expected 2 presets and 2 files, got %d items", n)
	}

	for range 3 {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(PickerModel)
	}
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(PickerModel)

	result := m.Result()
	if result.Path != filepath.Join(dir, "song.mp3") || result.Cancelled || result.Title != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPickerShowsTranscodedFormats(t *testing.T) {
	dir := tempDirWith(t, map[string]string{
		"track.m4a": "data",
		"book.m4b":  "data",
		"clip.aac":  "data",
	})
	m := NewPicker(nil, dir)

	for _, name := range []string{"book.m4b", "clip.aac", "track.m4a"} {
		found := false
		for _, item := range m.list.Items() {
			file, ok := item.(fileItem)
			if ok && file.name+file.ext == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected picker to include %s", name)
		}
	}
}

func TestPickerCancel(t *testing.T) {
	m := NewPicker(testPresets, tempDirWith(t, nil))

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !model.(PickerModel).Result().Cancelled {
		t.Fatal("expected cancelled result")
	}

	if !NewPicker(nil, tempDirWith(t, nil)).Result().Cancelled {
		t.Fatal("expected unfinished picker to report cancelled")
	}
}

func TestPickerStatusShownAboveList(t *testing.T) {
	m := NewPicker(testPresets, tempDirWith(t, nil)).WithStatus("Error: lib/x.mp3: no such file")
	if got := m.View(); !containsAll(got, "no such file", "specviz") {
		t.Fatalf("status missing from view:\n%s", got)
	}
}

func TestPickerMissingDirectory(t *testing.T) {
	m := NewPicker(nil, filepath.Join(t.TempDir(), "gone"))
	if !m.HasError() {
		t.Fatal("expected error for missing directory")
	}
}

func tempDirWith(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
