// Package preflight checks the host before a briefing run: media binaries,
// output directory space, LLM reachability, and configured assets.
//
// The pipeline calls RunAll before fetching news so a broken environment
// fails in seconds instead of after several minutes of synthesis. The CLI
// "newscast check" command prints the same results.
package preflight
