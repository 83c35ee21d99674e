// SPDX-License-Identifier: EPL-2.0

// Package transcode converts audio with an external ffmpeg binary.
//
// An Engine is given an ordered list of Sources, each able to produce an
// ffmpeg path: an explicit path, a PATH lookup, an HTTP download or an S3
// object. The first Init walks the list until a binary answers -version.
// Concurrent first callers share that single attempt, and its outcome is
// kept for the life of the engine:
//
//	Uninitialized -> Initializing -> Ready | Failed
//
// Transcode writes the input to a work directory and runs
//
//	ffmpeg -i input -vn -ac 1 -ar 16000 -b:a 24k -f mp3 output.mp3
//
// returning the MP3 named after the input. Lookup failures are *InitError,
// ffmpeg failures *ExecError with the captured stderr.
package transcode
