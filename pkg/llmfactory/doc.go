// Package llmfactory creates chat models from configuration and selects
// the model each tool is served by.
package llmfactory
