package audit

import (
	"context"
	"testing"
	"time"

	"github.com/kasuganosora/fighterdemo/server/model"
	"github.com/kasuganosora/fighterdemo/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrune(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]model.AuditLog{
		{TraceID: "old", Action: ActionCreate, CreatedAt: now.Add(-48 * time.Hour)},
		{TraceID: "new", Action: ActionCreate, CreatedAt: now.Add(-time.Minute)},
	}).Error)

	n, err := Prune(context.Background(), db, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var logs []model.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "new", logs[0].TraceID)
}
