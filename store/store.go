// Package store persists fighters.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/kasuganosora/fighterdemo/server/model"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("fighter not found")
	ErrAlreadyExists = errors.New("fighter already exists")
)

// FighterStore is the persistence contract the HTTP layer depends on.
type FighterStore interface {
	List(ctx context.Context) ([]model.Fighter, error)
	// Get returns ErrNotFound when no fighter carries name.
	Get(ctx context.Context, name string) (*model.Fighter, error)
	Create(ctx context.Context, f *model.Fighter) error
	UpdateSkills(ctx context.Context, name string, skills model.SkillList) (*model.Fighter, error)
	Delete(ctx context.Context, name string) (*model.Fighter, error)
	// Replace removes every fighter and inserts fighters in one transaction.
	Replace(ctx context.Context, fighters []model.Fighter) error
	Ping(ctx context.Context) error
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrAlreadyExists
	}
	return err
}

// isUniqueViolation catches drivers gorm cannot translate.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
