// Package llm is a small client for OpenAI-compatible chat completion
// endpoints that return JSON objects.
//
// The summarize stage uses CompleteJSON to turn one news item into a spoken
// briefing; preflight uses HealthCheck to confirm the key and model work
// before a run spends time fetching feeds.
//
// Requests that fail with 408, 429, 5xx or a network timeout are retried with
// exponential backoff. Those failures are tagged services.ErrTransient;
// authentication and other 4xx responses are tagged services.ErrConfiguration
// and returned immediately. Context cancellation stops retries.
//
// DecodeLLMJSON tolerates code fences and prose around the JSON object, which
// some models emit despite response_format.
package llm
