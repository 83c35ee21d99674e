// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/utils"
)

const (
	headerSize = 44
	chunkSize  = 8192 // samples per write
)

// Encode writes channel 0 of sig as a mono PCM WAV file of the given bit
// depth (8 or 16), scaling every sample by volume.
func Encode(sig *audio.Signal, bitDepth int, volume float64) ([]byte, error) {
	if sig == nil || sig.NumChannels() == 0 {
		return nil, &EncodeError{BitDepth: bitDepth, Err: audio.ErrEmptySignal}
	}

	samples := sig.Channels[0]
	buf := new(bytes.Buffer)
	buf.Grow(headerSize + len(samples)*max(1, bitDepth/8))

	if err := WritePCM(buf, sig.SampleRate, samples, bitDepth, volume); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WritePCM writes a canonical 44-byte header followed by the quantized
// samples. 8-bit data is unsigned, 16-bit data signed little-endian.
func WritePCM(w io.Writer, sampleRate int, samples []float32, bitDepth int, volume float64) error {
	if bitDepth != 8 && bitDepth != 16 {
		return &EncodeError{BitDepth: bitDepth, Err: ErrInvalidBitDepth}
	}
	if sampleRate <= 0 {
		return &EncodeError{BitDepth: bitDepth, Err: ErrInvalidSampleRate}
	}

	bytesPerSample := bitDepth / 8
	dataSize := uint32(len(samples) * bytesPerSample)

	header := make([]byte, headerSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], uint16(bytesPerSample))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return &EncodeError{BitDepth: bitDepth, Err: fmt.Errorf("write header: %w", err)}
	}

	buf := make([]byte, min(len(samples), chunkSize)*bytesPerSample)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*bytesPerSample]

		if bitDepth == 8 {
			for j, s := range chunk {
				out[j] = utils.QuantizeU8(s, volume)
			}
		} else {
			for j, s := range chunk {
				binary.LittleEndian.PutUint16(out[j*2:], uint16(utils.QuantizeS16(s, volume)))
			}
		}

		if _, err := w.Write(out); err != nil {
			return &EncodeError{BitDepth: bitDepth, Err: fmt.Errorf("write samples: %w", err)}
		}
	}

	return nil
}
