package pipeline

import "errors"

var (
	ErrNilImage   = errors.New("pipeline: no image supplied")
	ErrEmptyCloud = errors.New("pipeline: color cloud is empty")
)
