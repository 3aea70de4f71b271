package docx

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBody = errors.New("missing main document body")
	ErrPartExists  = errors.New("part already exists")
)

// Stage names the step of the open/mutate/serialize cycle that failed.
type Stage string

const (
	StageOpen      Stage = "open"
	StageParse     Stage = "parse"
	StageMutate    Stage = "mutate"
	StageSerialize Stage = "serialize"
)

// Error wraps a failure on a document package with the stage and part it occurred in.
type Error struct {
	Stage Stage
	Part  string
	Err   error
}

func (e *Error) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("docx %s %s: %v", e.Stage, e.Part, e.Err)
	}
	return fmt.Sprintf("docx %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(stage Stage, part string, err error) *Error {
	return &Error{Stage: stage, Part: part, Err: err}
}
