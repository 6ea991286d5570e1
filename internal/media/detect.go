package media

import (
	"path/filepath"
	"strings"
)

// Format identifies how an audio file is turned into PCM.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
	// FormatTranscode files are converted to a temporary WAV by ffmpeg first.
	FormatTranscode Format = "transcode"
)

var audioExts = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
	".aac":  FormatTranscode,
	".m4a":  FormatTranscode,
	".m4b":  FormatTranscode,
	".opus": FormatTranscode,
	".wma":  FormatTranscode,
}

// IsSupportedExt returns true if the extension is a supported audio format.
func IsSupportedExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

// FormatOf classifies path by its extension.
func FormatOf(path string) (Format, bool) {
	f, ok := audioExts[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// NeedsTranscode reports whether path must go through ffmpeg before decoding.
func NeedsTranscode(path string) bool {
	f, _ := FormatOf(path)
	return f == FormatTranscode
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg, .aac, .m4a, .m4b, .opus, .wma"
}
