// Package classify maps vitals readings into coarse risk bands with a
// recommendation string. It is a static threshold lookup for triage-style
// display, deliberately separate from the estimation engine: the engine
// reports what was measured, this package says how urgently a human should
// look at it. It is not a diagnostic tool.
package classify
