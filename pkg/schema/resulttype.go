package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

// The result of generating a message (stopped, tool call, etc.)
type ResultType uint

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	ResultStop      ResultType = iota // Normal completion
	ResultMaxTokens                   // Truncated due to max tokens
	ResultBlocked                     // Blocked by a content filter
	ResultToolCall                    // Model requested a tool call
	ResultOther                       // Other/unknown finish reason
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ResultType) String() string {
	switch r {
	case ResultStop:
		return "stop"
	case ResultMaxTokens:
		return "max_tokens"
	case ResultBlocked:
		return "blocked"
	case ResultToolCall:
		return "tool_call"
	case ResultOther:
		return "other"
	default:
		return "unknown"
	}
}
