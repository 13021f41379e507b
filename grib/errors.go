package grib

import (
	"fmt"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/status"
)

// errorFromStatus translates an engine status into the package error set.
// Unmapped codes wrap the status itself, so callers can still reach the
// native code with errors.As.
func errorFromStatus(st status.Status) error {
	switch st {
	case status.Success:
		return nil
	case status.NullHandle:
		return errs.ErrNullHandle
	case status.NotFound, status.MissingKey:
		return errs.ErrMissingKey
	default:
		return fmt.Errorf("engine call failed: %w", st)
	}
}
