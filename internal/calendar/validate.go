package calendar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidTime  = errors.New("invalid time")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("end time must be after start time")
)

// Validate is the form-level check applied before an event is created or
// edited by hand. The store itself accepts anything.
func Validate(f Fields) error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case strings.TrimSpace(f.Date) == "":
		return fmt.Errorf("%w: date", ErrMissingField)
	case strings.TrimSpace(f.StartTime) == "":
		return fmt.Errorf("%w: start time", ErrMissingField)
	case strings.TrimSpace(f.EndTime) == "":
		return fmt.Errorf("%w: end time", ErrMissingField)
	}

	if _, err := ParseDate(f.Date); err != nil {
		return err
	}
	start, err := ParseClock(f.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(f.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return ErrInvalidRange
	}
	return nil
}
