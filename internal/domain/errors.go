package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds of the engine
var (
	ErrOutOfRangeInput        = errors.New("input out of range")
	ErrDepthExceedsResolution = errors.New("depth exceeds safe resolution")
	ErrTargetOutOfRange       = errors.New("target outside generated range")
)

// RangeError reports an input that cannot be normalized into its domain
type RangeError struct {
	Field string
	Value float64
	Want  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %v out of range (want %s)", e.Field, e.Value, e.Want)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRangeInput
}

// ResolutionError reports the level at which a drill-down stopped because
// the segment span fell below the numeric floor. Levels from Level onward
// are undetermined.
type ResolutionError struct {
	Level int
	Span  float64
	Floor float64
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("level %d span %g below floor %g", e.Level, e.Span, e.Floor)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrDepthExceedsResolution
}

// GeneratedRangeError reports a target outside [Start, End) of a timeline
type GeneratedRangeError struct {
	Target float64
	Start  float64
	End    float64
}

func (e *GeneratedRangeError) Error() string {
	if e.Target < e.Start {
		return fmt.Sprintf("target JD %.6f precedes timeline start %.6f", e.Target, e.Start)
	}
	return fmt.Sprintf("target JD %.6f at or after timeline end %.6f; request a longer timeline", e.Target, e.End)
}

func (e *GeneratedRangeError) Is(target error) bool {
	return target == ErrTargetOutOfRange
}
