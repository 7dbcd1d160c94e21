// Package agents defines the contract between the bridge and a thread-oriented
// agent backend: the native event union a backend streams during a turn, the
// options a thread is started with, and the client interface concrete backends
// (such as agents/codex) implement.
package agents
