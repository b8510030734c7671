// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI.
//
// A run loads the viewer settings, generates a sample snapshot group, opens a
// view-model on it, applies the requested selection and writes a report of
// the resulting view.
package app
