package model_test

import (
	"testing"
	"time"

	"github.com/kasuganosora/fighterdemo/server/model"
	"github.com/kasuganosora/fighterdemo/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Fighter
	f := &model.Fighter{Name: "Ryu", Skill: model.SkillList{"Hadoken", "Shoryuken"}}
	require.NoError(t, db.Create(f).Error)
	assert.False(t, f.CreatedAt.IsZero())
	assert.False(t, f.UpdatedAt.IsZero())

	var found model.Fighter
	require.NoError(t, db.Where("name = ?", "Ryu").Take(&found).Error)
	assert.Equal(t, model.SkillList{"Hadoken", "Shoryuken"}, found.Skill)

	// the column holds the joined string
	var raw string
	require.NoError(t, db.Raw("SELECT skill FROM fighters WHERE name = ?", "Ryu").Scan(&raw).Error)
	assert.Equal(t, "Hadoken,Shoryuken", raw)

	// AuditLog
	al := &model.AuditLog{
		TraceID:     "trace-001",
		Action:      "fighter.create",
		FighterName: "Ryu",
		Request:     datatypes.JSON(`{"name":"Ryu"}`),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(al).Error)
	assert.Greater(t, al.ID, int64(0))
}

func TestFighter_DuplicateNameRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Create(&model.Fighter{Name: "Ken", Skill: model.SkillList{}}).Error)
	err := db.Create(&model.Fighter{Name: "Ken", Skill: model.SkillList{"x"}}).Error
	assert.Error(t, err)

	var count int64
	db.Model(&model.Fighter{}).Where("name = ?", "Ken").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFighter_EmptySkillList(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Create(&model.Fighter{Name: "Blanka"}).Error)

	var found model.Fighter
	require.NoError(t, db.Where("name = ?", "Blanka").Take(&found).Error)
	assert.NotNil(t, found.Skill)
	assert.Empty(t, found.Skill)
}
