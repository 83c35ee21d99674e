// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"maps"
	"mime"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ik5/audsqueeze/audio"
)

// Format keys used by the registry.
const (
	WAV  = "wav"
	MP3  = "mp3"
	Ogg  = "ogg"
	AIFF = "aiff"
	M4A  = "m4a" // recognised, decoded only by the transcoder
	FLAC = "flac"
	WebM = "webm"
)

var byMIME = map[string]string{
	"audio/wav":       WAV,
	"audio/x-wav":     WAV,
	"audio/wave":      WAV,
	"audio/vnd.wave":  WAV,
	"audio/mpeg":      MP3,
	"audio/mp3":       MP3,
	"audio/x-mpeg":    MP3,
	"audio/ogg":       Ogg,
	"application/ogg": Ogg,
	"audio/vorbis":    Ogg,
	"audio/aiff":      AIFF,
	"audio/x-aiff":    AIFF,
	"audio/mp4":       M4A,
	"audio/x-m4a":     M4A,
	"audio/m4a":       M4A,
	"audio/flac":      FLAC,
	"audio/x-flac":    FLAC,
	"audio/webm":      WebM,
	"video/webm":      WebM,
}

// knownMIMEs fixes the order of alias matching in Detect.
var knownMIMEs = slices.Sorted(maps.Keys(byMIME))

var byExt = map[string]string{
	"wav":  WAV,
	"wave": WAV,
	"mp3":  MP3,
	"ogg":  Ogg,
	"oga":  Ogg,
	"aif":  AIFF,
	"aiff": AIFF,
	"aifc": AIFF,
	"m4a":  M4A,
	"mp4":  M4A,
	"aac":  M4A,
	"flac": FLAC,
	"webm": WebM,
}

// Detect identifies the container of in. Content sniffing wins over the
// declared MIME type, which wins over the file extension.
func Detect(in audio.Input) (string, error) {
	if len(in.Data) == 0 {
		return "", ErrEmptyInput
	}

	for m := mimetype.Detect(in.Data); m != nil; m = m.Parent() {
		if f, ok := byMIME[m.String()]; ok {
			return f, nil
		}
		for _, known := range knownMIMEs {
			if m.Is(known) {
				return byMIME[known], nil
			}
		}
	}

	if in.MIMEType != "" {
		if mt, _, err := mime.ParseMediaType(in.MIMEType); err == nil {
			if f, ok := byMIME[strings.ToLower(mt)]; ok {
				return f, nil
			}
		}
	}

	if f, ok := byExt[in.Ext()]; ok {
		return f, nil
	}

	return "", ErrUnknownFormat
}

var canonicalMIME = map[string]string{
	WAV:  "audio/wav",
	MP3:  "audio/mpeg",
	Ogg:  "audio/ogg",
	AIFF: "audio/aiff",
	M4A:  "audio/mp4",
	FLAC: "audio/flac",
	WebM: "audio/webm",
}

// MIMEType returns the canonical MIME type of a format key, or "".
func MIMEType(format string) string { return canonicalMIME[format] }
