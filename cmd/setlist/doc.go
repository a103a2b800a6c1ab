// Package main hosts the setlist CLI entrypoint and command graph.
//
// The Cobra-based command tree wires terminal invocations into the internal
// packages: thread processing runs, playlist assembly from run artifacts,
// one-off catalog searches, and configuration scaffolding. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
