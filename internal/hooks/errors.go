package hooks

import "fmt"

// FSError reports a filesystem failure that makes the generated settings file
// unusable. Only directory creation and the final write produce it; every
// other failure in this package degrades gracefully instead.
type FSError struct {
	Op   string
	Path string
	Err  error
}

func (e *FSError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FSError) Unwrap() error {
	return e.Err
}
