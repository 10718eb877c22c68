// Package main hosts the orgsort CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once per invocation, wires the
// run logger and history store, and hands the work to the organizer. Output
// is rendered as tables for people or JSON for scripts.
package main
