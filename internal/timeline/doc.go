// Package timeline lays narration segments out on the rendered video's time
// axis.
//
// A Segment is one unit of spoken text with a positive duration, either
// measured from synthesized audio or estimated from the text. Build places
// segments back to back with a fixed gap between them and returns one Entry
// per segment. The resulting entries are the single source of truth for both
// the caption file and the on-screen headline overlays, so the two can never
// drift apart.
//
// Nothing in this package performs I/O; every function is deterministic and
// safe for concurrent use.
package timeline
