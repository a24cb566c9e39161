// Package recording persists raw sample traces so scans can be replayed
// through the estimation pipeline offline. The engine itself never touches
// storage; this store exists for the record and replay commands, which are
// how tuning changes get evaluated against previously captured signals.
package recording
