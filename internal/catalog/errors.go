package catalog

import "fmt"

// DataLoadError reports a catalog source that is missing, unreadable, or lacks required columns.
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load catalog %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load catalog %s: %s", e.Path, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
