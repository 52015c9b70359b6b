package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedSource = errors.New("unsupported ingest source")
)

// ClassificationError is returned by Router.Route when the model output is
// not a valid routable category. Raw holds the model output.
type ClassificationError struct {
	Raw string
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify question failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// DateExtractionError is returned when the timetable date extraction
// output cannot be used. It fails the request.
type DateExtractionError struct {
	Raw string
	Err error
}

func (e *DateExtractionError) Error() string {
	return fmt.Sprintf("extract timetable dates failed: %v", e.Err)
}

func (e *DateExtractionError) Unwrap() error {
	return e.Err
}
