// Package ffmpeg wraps the ffmpeg invocations shared by the narration and
// render stages: running the binary with an injectable runner, generating
// silence, and joining narration clips with fixed gaps.
//
// Callers pass a CommandRunner so tests can capture arguments without an
// ffmpeg binary on PATH.
package ffmpeg
