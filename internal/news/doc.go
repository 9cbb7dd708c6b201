// Package news fetches the day's candidate stories from Google News RSS
// search feeds, one feed per topic.
//
// Links are unwrapped from Google redirects and stripped of tracking
// parameters, summaries are reduced from HTML to plain text, and the combined
// list is de-duplicated by link and capped at PerTopic times the number of
// topics. A topic whose feed fails is logged and skipped; the fetch only
// fails when every topic does.
package news
