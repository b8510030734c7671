// Package cli turns the command line into an app.Config. It owns the flag
// definitions, the usage text and the mapping of bad input to ExitError codes;
// it does not open views or read settings files.
package cli
