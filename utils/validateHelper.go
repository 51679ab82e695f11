package utils

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"github.com/go-playground/validator/v10"
)

// ProcessValidationErrors flattens gin binding failures into a field -> rule
// map for 400 responses. Non-validator errors get a single generic entry.
func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["body"] = "invalid request body"
		return errorResponse
	}
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// check if id exists, scoped to venue, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, venueId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, venueId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// count records, using WHERE venue_id = ? AND $condition
// venue_id can be blank for admin / unscoped queries
func ResourceCountWhere[T any](ctx context.Context, venueId string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if venueId != "" {
		dbCtx = dbCtx.Where("venue_id = ?", venueId)
	}
	dbCtx = dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
