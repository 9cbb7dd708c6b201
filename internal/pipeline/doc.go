// Package pipeline runs one day's briefing end to end.
//
// Runner.Run walks the stages in order (fetch, summarize, script,
// synthesize, concat, timeline, captions, thumbnail, landscape, shorts,
// upload) inside the per-day output directory, which is guarded by a file
// lock. Failures in the timeline core abort the run with the stage and
// segment that broke. Failures in outside collaborators (the LLM, speech,
// thumbnail, shorts render, YouTube) are recorded as warnings and the run
// continues. Every run is written to the history ledger and to summary.json.
package pipeline
