package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// Server error codes raised when an ordered query cannot be served without
// an index that is missing or still building.
var indexErrorCodes = []int{
	27,  // IndexNotFound
	96,  // OperationFailed: sort exceeded memory limit (pre 4.4)
	292, // QueryExceededMemoryLimitNoDiskUseAllowed
}

// classify wraps driver errors into the domain taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		for _, code := range indexErrorCodes {
			if serverErr.HasErrorCode(code) {
				return fmt.Errorf("%s: %w: %w", op, models.ErrIndexNotReady, err)
			}
		}
	}

	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
