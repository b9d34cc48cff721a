package video

import (
	"errors"
	"fmt"
)

//ErrUnsupportedLocale is returned together with the default locale text, it is never fatal
var ErrUnsupportedLocale = errors.New("unsupported locale")

//DecodeError means the input image could not be read or is not a supported format
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode '%s': %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

//SegmentationError means the external segmentation step failed or returned nothing
type SegmentationError struct {
	Err error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation: %v", e.Err)
}

func (e *SegmentationError) Unwrap() error { return e.Err }

//PersistError means the overlay artifact could not be written
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist '%s': %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
