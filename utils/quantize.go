// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

func clampUnit(x float32) float64 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}

	return float64(x)
}

// QuantizeU8 maps x to unsigned 8-bit PCM after clamping it to [-1, 1]
// and scaling it by volume. The result is round((s+1)*128), saturated at 255.
func QuantizeU8(x float32, volume float64) uint8 {
	s := clampUnit(x) * volume
	v := math.Round((s + 1) * 128)
	if v > math.MaxUint8 {
		return math.MaxUint8
	} else if v < 0 {
		return 0
	}

	return uint8(v)
}

// QuantizeS16 maps x to signed 16-bit PCM after clamping it to [-1, 1]
// and scaling it by volume. Negative values use the full 32768 range.
func QuantizeS16(x float32, volume float64) int16 {
	s := clampUnit(x) * volume
	if s < 0 {
		return int16(math.Max(math.Round(s*32768), math.MinInt16))
	}

	return int16(math.Min(math.Round(s*32767), math.MaxInt16))
}

// DequantizeS16 is the inverse of QuantizeS16 at full volume.
func DequantizeS16(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768.0
	}

	return float32(v) / 32767.0
}

// DequantizeU8 converts unsigned 8-bit PCM to a float in [-1, 1).
func DequantizeU8(v uint8) float32 {
	return (float32(v) - 128) / 128.0
}

// NormalizeInt converts a signed integer sample of the given bit depth to
// a float in [-1, 1]. 16-bit values go through DequantizeS16.
func NormalizeInt(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v) / 128.0
	case 16:
		return DequantizeS16(int16(v))
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(v) / 2147483648.0)
	default:
		return DequantizeS16(int16(v))
	}
}
