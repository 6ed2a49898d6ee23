package stor

import (
	"gorm.io/gorm"
)

// WithTx wraps fn in a single database transaction: all-or-nothing commit,
// rollback on any returned error. Every multi-step mutation (master + details
// + log row) goes through here.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
