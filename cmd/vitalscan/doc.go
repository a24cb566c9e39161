// Command vitalscan runs the pulse-estimation engine from the terminal:
// simulated scans for tuning work, replay of recorded traces, and
// management of the trace store and configuration.
package main
