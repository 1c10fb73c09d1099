package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"vibedl/pkg/utils"
)

// withConflictRetry retries a transaction once when postgres aborts it with a
// deadlock or serialization failure, then gives up with ErrStoreConflict.
func withConflictRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = fn()
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return errors.Join(utils.ErrStoreConflict, err)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure / deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
