package model

import (
	"errors"
	"strings"
)

const (
	GenerationErrorPrefix    = "Error generating response: "
	ToolExecutionErrorPrefix = "Error executing function: "
)

// ErrNoExecutor is reported when a backend requests a function call but the
// request carried no ToolExecutor.
var ErrNoExecutor = errors.New("no tool executor configured")

// Stage identifies where a per-request failure happened.
type Stage int

const (
	StageGeneration Stage = iota
	StageToolExecution
)

func (s Stage) String() string {
	switch s {
	case StageGeneration:
		return "generation"
	case StageToolExecution:
		return "tool execution"
	default:
		return "unknown"
	}
}

// Failure tags an error with the stage it came from.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Stage.String() + " failed"
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// GenerationFailure wraps err as a failure of the first backend call.
func GenerationFailure(err error) error {
	return &Failure{Stage: StageGeneration, Err: err}
}

// ToolExecutionFailure wraps err as a failure of the tool round trip.
func ToolExecutionFailure(err error) error {
	return &Failure{Stage: StageToolExecution, Err: err}
}

// FailureText renders err as displayable text with the prefix of its stage.
// Untagged errors are treated as generation failures.
func FailureText(err error) string {
	var f *Failure
	if errors.As(err, &f) && f.Stage == StageToolExecution {
		return ToolExecutionErrorPrefix + f.Error()
	}
	return GenerationErrorPrefix + err.Error()
}

// IsFailureText reports whether text is an error string produced by a
// Provider rather than an answer from the model.
func IsFailureText(text string) bool {
	return strings.HasPrefix(text, GenerationErrorPrefix) ||
		strings.HasPrefix(text, ToolExecutionErrorPrefix)
}
