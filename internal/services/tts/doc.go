// Package tts calls an OpenAI-compatible speech endpoint and stores the
// returned MP3 audio. Retry policy belongs to the caller; errors are tagged
// with the services sentinels so the caller can tell a transient failure from
// a bad key.
package tts
