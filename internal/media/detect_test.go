package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtIncludesTranscodeFamily(t *testing.T) {
	for _, ext := range []string{".aac", ".M4A", ".m4b", ".opus"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	if IsSupportedExt(".txt") {
		t.Fatal("did not expect .txt to be supported")
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"song.mp3":      FormatMP3,
		"dir/take.WAV":  FormatWAV,
		"a.flac":        FormatFLAC,
		"b.ogg":         FormatOGG,
		"audiobook.m4b": FormatTranscode,
		"lib/theme.aac": FormatTranscode,
	}
	for path, want := range cases {
		got, ok := FormatOf(path)
		if !ok || got != want {
			t.Fatalf("FormatOf(%q) = %q, %v; want %q", path, got, ok, want)
		}
	}
	if _, ok := FormatOf("notes.txt"); ok {
		t.Fatal("expected unknown extension to be rejected")
	}
}

func TestNeedsTranscode(t *testing.T) {
	if !NeedsTranscode("track.m4a") {
		t.Fatal("expected m4a to need transcode")
	}
	if NeedsTranscode("track.mp3") {
		t.Fatal("did not expect mp3 to need transcode")
	}
}

func TestSupportedExtsListMatchesTable(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}
