package store

import (
	"context"
	"time"

	"github.com/kasuganosora/fighterdemo/server/model"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewFighterStore returns a FighterStore backed by db.
func NewFighterStore(db *gorm.DB) FighterStore {
	return &gormStore{db: db}
}

func (s *gormStore) List(ctx context.Context) ([]model.Fighter, error) {
	fighters := make([]model.Fighter, 0)
	err := s.db.WithContext(ctx).
		Order("created_at ASC").Order("name ASC").
		Find(&fighters).Error
	return fighters, err
}

func (s *gormStore) Get(ctx context.Context, name string) (*model.Fighter, error) {
	var f model.Fighter
	if err := s.db.WithContext(ctx).Where("name = ?", name).Take(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *gormStore) Create(ctx context.Context, f *model.Fighter) error {
	if f.Skill == nil {
		f.Skill = model.SkillList{}
	}
	return translate(s.db.WithContext(ctx).Create(f).Error)
}

func (s *gormStore) UpdateSkills(ctx context.Context, name string, skills model.SkillList) (*model.Fighter, error) {
	if skills == nil {
		skills = model.SkillList{}
	}
	var f model.Fighter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A plain UPDATE never inserts, so a row deleted concurrently stays deleted.
		res := tx.Model(&model.Fighter{}).Where("name = ?", name).Updates(map[string]interface{}{
			"skill":      skills,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// MySQL reports 0 for a matched row whose values did not change.
			if err := tx.Where("name = ?", name).Take(&model.Fighter{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("name = ?", name).Take(&f).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *gormStore) Delete(ctx context.Context, name string) (*model.Fighter, error) {
	var f model.Fighter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Take(&f).Error; err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&model.Fighter{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *gormStore) Replace(ctx context.Context, fighters []model.Fighter) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Fighter{}).Error; err != nil {
			return err
		}
		if len(fighters) == 0 {
			return nil
		}
		return tx.CreateInBatches(&fighters, 100).Error
	}))
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
