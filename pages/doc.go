// Package pages provides the page controllers of the tools.
//
// A Page owns the transient state of one tool: the inputs, the selected
// file, the loading flag and the last successful result. It checks the
// required fields, invokes the remote function and reports the outcome
// through a Notifier.
package pages
