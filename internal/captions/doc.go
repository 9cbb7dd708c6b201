// Package captions derives subtitle cues from a narration timeline and
// serializes them as SRT.
//
// Cues are always derived from the shared timeline built by package timeline;
// the caption source (full narration or headline) and granularity (one cue
// per segment or one per sentence) are options of that single derivation.
// Serialization is deterministic: timestamps are floored to the millisecond
// so the same cues always produce byte-identical output.
package captions
