package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/olivier-w/specviz/internal/media"
)

// decodeFunc reads a whole file into memory.
type decodeFunc func(r io.ReadSeeker) (*PCMBuffer, error)

// decoderFor resolves the decoder for a directly decodable format.
func decoderFor(f media.Format) (decodeFunc, error) {
	switch f {
	case media.FormatMP3:
		return decodeMP3, nil
	case media.FormatWAV:
		return decodeWAV, nil
	case media.FormatFLAC:
		return decodeFLAC, nil
	case media.FormatOGG:
		return decodeOGG, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// --- MP3 ---

// go-mp3 always produces 16-bit LE stereo. Encoder delay and padding
// recorded by LAME are trimmed so the audio starts on the first real sample.
func decodeMP3(r io.ReadSeeker) (*PCMBuffer, error) {
	trimStart, trimEnd := mp3GaplessTrim(r)

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	samples = trimFrames(samples, 2, trimStart, trimEnd)
	return &PCMBuffer{Samples: samples, SampleRate: dec.SampleRate(), Channels: 2}, nil
}

// --- WAV ---

const wavFormatPCM = 1

func decodeWAV(r io.ReadSeeker) (*PCMBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV encoding %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = to16(v, bitDepth)
	}
	return &PCMBuffer{
		Samples:    samples,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

// --- FLAC ---

func decodeFLAC(r io.ReadSeeker) (*PCMBuffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC frame: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := range n {
			for ch := range channels {
				samples = append(samples, to16(int(frame.Subframes[ch].Samples[i]), bps))
			}
		}
	}

	return &PCMBuffer{Samples: samples, SampleRate: int(info.SampleRate), Channels: channels}, nil
}

// --- OGG Vorbis ---

func decodeOGG(r io.ReadSeeker) (*PCMBuffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	samples := make([]int16, len(data))
	for i, s := range data {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		samples[i] = int16(s * 32767)
	}
	return &PCMBuffer{Samples: samples, SampleRate: format.SampleRate, Channels: format.Channels}, nil
}
