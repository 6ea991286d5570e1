package player

import "encoding/binary"

// playbackSampleRate is the fixed output rate. oto allows one context per
// process, so every track is converted to it.
const playbackSampleRate = 48000

// toPlaybackPCM encodes pcm as 16-bit LE stereo at playbackSampleRate.
// Mono is duplicated to both sides, channels beyond the first two are
// dropped, and other rates are linearly interpolated.
func toPlaybackPCM(pcm *PCMBuffer) []byte {
	srcFrames := int64(pcm.Frames())
	rate := int64(pcm.SampleRate)
	if rate == playbackSampleRate {
		raw := make([]byte, srcFrames*frameBytes)
		for i := range srcFrames {
			l, r := stereoAt(pcm, i)
			putFrame(raw, i, l, r)
		}
		return raw
	}

	outFrames := srcFrames * playbackSampleRate / rate
	if srcFrames > 0 && outFrames == 0 {
		outFrames = 1
	}
	raw := make([]byte, outFrames*frameBytes)

	// srcPos is the source position scaled by playbackSampleRate.
	var srcPos int64
	for i := range outFrames {
		src := srcPos / playbackSampleRate
		frac := srcPos % playbackSampleRate

		l0, r0 := stereoAt(pcm, src)
		l1, r1 := l0, r0
		if src+1 < srcFrames {
			l1, r1 = stereoAt(pcm, src+1)
		}
		putFrame(raw, i, interpolateSample(l0, l1, frac), interpolateSample(r0, r1, frac))
		srcPos += rate
	}
	return raw
}

func stereoAt(pcm *PCMBuffer, frame int64) (left, right int16) {
	base := int(frame) * pcm.Channels
	left = pcm.Samples[base]
	right = left
	if pcm.Channels > 1 {
		right = pcm.Samples[base+1]
	}
	return left, right
}

func putFrame(raw []byte, frame int64, left, right int16) {
	off := frame * frameBytes
	binary.LittleEndian.PutUint16(raw[off:], uint16(left))
	binary.LittleEndian.PutUint16(raw[off+2:], uint16(right))
}

func interpolateSample(a, b int16, fracNum int64) int16 {
	if fracNum == 0 || a == b {
		return a
	}
	diff := int64(b) - int64(a)
	return int16(int64(a) + (diff*fracNum+playbackSampleRate/2)/playbackSampleRate)
}
