// Package summarize turns fetched news items into spoken briefings with one
// JSON chat completion per item.
//
// A failed request or an unparseable reply never stops the run: the item's
// own summary and title are used instead and a warning is returned with the
// briefings so the substitution is visible in the run summary.
package summarize
