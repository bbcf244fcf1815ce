package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for setups that can never animate: no
	// parts, a nil part, a non-positive duration or tick period.
	ErrConfiguration = errors.New("portal: invalid configuration")
	// ErrOutOfRange is returned for a bad part index or for reading
	// baselines before they were captured.
	ErrOutOfRange       = errors.New("portal: out of range")
	ErrTransitionActive = errors.New("portal: transition already running")
)

func missingUniform(name string) error {
	return fmt.Errorf("%w: material has no %q uniform", ErrConfiguration, name)
}
