package command

import "codeberg.org/mutker/homectl/internal/errors"

const (
	ErrNilTarget = errors.ErrInvalidTarget
)
