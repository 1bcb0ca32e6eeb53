package audit

import (
	"context"
	"time"

	"github.com/kasuganosora/fighterdemo/server/model"
	"gorm.io/gorm"
)

// Prune deletes audit rows created before now minus retention and returns
// how many were removed.
func Prune(ctx context.Context, db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AuditLog{})
	return res.RowsAffected, res.Error
}
