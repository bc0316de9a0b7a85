package voice

import (
	"encoding/base64"
	"encoding/binary"
)

// Audio wire format for the live endpoint: 16kHz mono 16-bit signed PCM,
// base64-encoded, one frame per message.
const (
	SampleRate  = 16000
	FrameSize   = 4096
	MIMETypePCM = "audio/pcm;rate=16000"
)

// EncodeFrame converts float32 samples in [-1, 1] to base64 int16 LE PCM.
// Out-of-range samples are clamped rather than wrapped.
func EncodeFrame(samples []float32) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v)))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeFrame reverses EncodeFrame. Used by tests and the seed tooling.
func DecodeFrame(data string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(raw)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out, nil
}
