package models

import (
	"fmt"

	"bitbucket.org/mmdatafocus/venues_backend/utils"
)

// ErrNotFound wraps the shared sentinel so handlers can map any missing
// referenced entity to 404 with errors.Is.
func ErrNotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, utils.ErrorRecordNotFound)
}
