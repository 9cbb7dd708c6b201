// Package narration turns briefings into the spoken track.
//
// BuildScript lays out the intro, one line per briefing and the outro from
// configurable templates. Synthesizer renders each line to seg_NN.mp3 with the
// speech client, measures it with ffprobe and falls back to a silent
// placeholder of the estimated length when speech fails, so the timeline
// always has one segment per line. Concat joins the clips with the timeline
// gap between them.
//
// Scripts can be saved to and loaded from YAML so a timeline can be rebuilt
// without calling any external service.
package narration
