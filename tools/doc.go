// Package tools is the catalog of the QuickAI tools.
//
// Each Tool describes one remote function and its page: the request
// schema, the prompts sent to the model, the response key and kind,
// the file constraints and the notification texts.
package tools
