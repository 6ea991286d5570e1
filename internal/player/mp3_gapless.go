package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// mp3DecoderDelay is the fixed synthesis delay of a Layer III decoder,
// in samples per channel.
const mp3DecoderDelay = 529

var errNoMP3Frame = errors.New("no mp3 frame header")

// mp3GaplessTrim reads the LAME encoder delay and padding from the Xing or
// Info frame of an MP3 stream and returns how many samples per channel to
// drop from each end of the decoded audio. Streams without the tag yield
// (0, 0). The read position of r is restored.
func mp3GaplessTrim(r io.ReadSeeker) (start, end int) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0
	}
	defer func() {
		_, _ = r.Seek(pos, io.SeekStart)
	}()

	frameOffset, err := firstMP3FrameOffset(r)
	if err != nil {
		return 0, 0
	}
	if _, err := r.Seek(frameOffset, io.SeekStart); err != nil {
		return 0, 0
	}

	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, 0
	}
	tagOffset, err := xingTagOffset(header[:])
	if err != nil {
		return 0, 0
	}
	if _, err := r.Seek(frameOffset+int64(tagOffset), io.SeekStart); err != nil {
		return 0, 0
	}

	buf := make([]byte, 256)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, 0
	}
	start, end, _ = parseLAMEDelay(buf[:n])
	return start, end
}

// firstMP3FrameOffset skips a leading ID3v2 tag.
func firstMP3FrameOffset(r io.ReadSeeker) (int64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	var header [10]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, errNoMP3Frame
	}
	if !bytes.Equal(header[:3], []byte("ID3")) {
		return 0, nil
	}

	size := int(header[6]&0x7f)<<21 | int(header[7]&0x7f)<<14 | int(header[8]&0x7f)<<7 | int(header[9]&0x7f)
	if header[5]&0x10 != 0 {
		size += 10 // footer
	}
	return int64(10 + size), nil
}

// xingTagOffset returns where the Xing/Info tag starts within the frame
// described by header: after the header, optional CRC, and side info.
func xingTagOffset(header []byte) (int, error) {
	h := binary.BigEndian.Uint32(header)
	if h>>21 != 0x7ff {
		return 0, errNoMP3Frame
	}

	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	noCRC := (h>>16)&0x1 == 1
	mono := (h>>6)&0x3 == 0x3
	if layer != 0x1 || version == 0x1 {
		return 0, errNoMP3Frame
	}

	var sideInfo int
	switch mpeg1 := version == 0x3; {
	case mpeg1 && mono:
		sideInfo = 17
	case mpeg1:
		sideInfo = 32
	case mono:
		sideInfo = 9
	default:
		sideInfo = 17
	}

	offset := 4 + sideInfo
	if !noCRC {
		offset += 2
	}
	return offset, nil
}

// parseLAMEDelay reads the 12-bit encoder delay and padding from a
// Xing/Info tag with a LAME extension.
func parseLAMEDelay(b []byte) (start, end int, ok bool) {
	if len(b) < 8 {
		return 0, 0, false
	}
	if tag := string(b[:4]); tag != "Xing" && tag != "Info" {
		return 0, 0, false
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	offset := 8
	for _, f := range []struct {
		bit  uint32
		size int
	}{{0x1, 4}, {0x2, 4}, {0x4, 100}, {0x8, 4}} {
		if flags&f.bit != 0 {
			offset += f.size
		}
	}
	if len(b) < offset+24 {
		return 0, 0, false
	}

	dp := b[offset+21 : offset+24]
	delay := int(dp[0])<<4 | int(dp[1]>>4)
	padding := int(dp[1]&0x0f)<<8 | int(dp[2])
	if delay == 0 && padding == 0 {
		return 0, 0, false
	}
	return delay + mp3DecoderDelay, max(padding-mp3DecoderDelay, 0), true
}

// trimFrames drops start frames from the front and end frames from the
// back of interleaved samples.
func trimFrames(samples []int16, channels, start, end int) []int16 {
	frames := len(samples) / channels
	start = min(start, frames)
	end = min(end, frames-start)
	return samples[start*channels : (frames-end)*channels]
}
