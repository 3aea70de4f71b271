package compose

import (
	"errors"
	"fmt"
)

// Stage is a step of document construction. Stages only move forward, one at a time.
type Stage int

const (
	Initializing Stage = iota
	BodyFilled
	SectionsAppended
	TOCComputed
	AttachmentsAppended
	Finalized
)

var stageNames = [...]string{
	Initializing:        "initializing",
	BodyFilled:          "body filled",
	SectionsAppended:    "sections appended",
	TOCComputed:         "toc computed",
	AttachmentsAppended: "attachments appended",
	Finalized:           "finalized",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

var ErrFinalized = errors.New("document is finalized")

// StageError reports a transition attempted out of order.
type StageError struct {
	From Stage
	To   Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}
