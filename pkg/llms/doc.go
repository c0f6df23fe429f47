// Package llms provides unified support for interacting with chat models from various providers.
//
// Each subpackage includes a provider-specific implementation of the Model interface:
// openai serves any OpenAI-compatible chat-completion gateway, anthropic and googleai
// talk to the respective vendor APIs directly.
//
// The `llms.go` file contains the types and interfaces for interacting with different LLMs.
//
// The `options.go` file provides various options and functions to configure the calls.
package llms
