// Package daemon owns the long-running process lifecycle: flock-based
// single-instance enforcement and the runtime status surfaced over IPC.
package daemon
