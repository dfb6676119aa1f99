package model

// ReplyKind discriminates the decoded shape of a backend response.
type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyFunctionCall
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyText:
		return "text"
	case ReplyFunctionCall:
		return "function_call"
	default:
		return "unknown"
	}
}

// Reply is a backend response reduced to either plain text or a single
// function-call directive.
type Reply struct {
	Kind ReplyKind
	Text string
	Call ToolCall

	// Native holds the backend's own representation of the directive so it
	// can be resubmitted unchanged in the follow-up call.
	Native any
}

// TextReply returns a Reply carrying final text.
func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

// FunctionCallReply returns a Reply carrying a function-call directive.
func FunctionCallReply(call ToolCall, native any) Reply {
	return Reply{Kind: ReplyFunctionCall, Call: call, Native: native}
}

// IsFunctionCall reports whether the backend asked for a tool to be run.
func (r Reply) IsFunctionCall() bool {
	return r.Kind == ReplyFunctionCall
}
