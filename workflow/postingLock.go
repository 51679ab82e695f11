package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireVenueCloseLock serializes close-day per venue across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same *gorm.DB that will run the close transaction.
func AcquireVenueCloseLock(tx *gorm.DB, venueId string) error {
	lockName := fmt.Sprintf("close_day:%s", venueId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire close-day lock for venue_id=%s", venueId)
	}
	return nil
}

func ReleaseVenueCloseLock(tx *gorm.DB, venueId string) {
	lockName := fmt.Sprintf("close_day:%s", venueId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
