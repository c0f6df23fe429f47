package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"function", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"function", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"function", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"function", "model"},
	}

	StatsFunctionCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_function_calls_succeeded",
		Help:         "stats_function_calls_succeeded provides total function calls succeeded",
		RequiredTags: []string{"function"},
	}

	StatsFunctionCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_function_calls_failed",
		Help:         "stats_function_calls_failed provides total function calls failed",
		RequiredTags: []string{"function"},
	}

	StatsFunctionCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_function_calls_not_found",
		Help:         "stats_function_calls_not_found provides total calls to unknown functions",
		RequiredTags: []string{"function"},
	}
)

// Perf
var (
	PerfFunctionCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_function_call",
		Help:         "perf_function_call provides duration of function call",
		RequiredTags: []string{"function"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfFunctionCall,
	&StatsFunctionCallsFailed,
	&StatsFunctionCallsNotFound,
	&StatsFunctionCallsSucceeded,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMInputTokens,
	&StatsLLMOutputTokens,
}
