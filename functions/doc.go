// Package functions implements the remote invocation functions.
//
// A Function parses the JSON body of a tool request, sends the fixed
// two-message prompt of the tool to its model in a single call,
// and returns the result under the tool's response key.
package functions
