package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SkillDelimiter separates skill names in the stored skill column.
// Skill names must never contain it.
const SkillDelimiter = ","

// Fighter is the single managed entity. Name is the primary key and cannot be
// changed once the fighter exists.
type Fighter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Skill     SkillList `gorm:"type:text;not null" json:"skill"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SkillList is a list of skill names persisted as one delimited string.
type SkillList []string

// ParseSkills splits a stored skill column. The empty string is the empty list.
func ParseSkills(raw string) SkillList {
	if raw == "" {
		return SkillList{}
	}
	return strings.Split(raw, SkillDelimiter)
}

// String returns the stored form of the list.
func (s SkillList) String() string {
	return strings.Join(s, SkillDelimiter)
}

// Value implements driver.Valuer.
func (s SkillList) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *SkillList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = SkillList{}
	case string:
		*s = ParseSkills(v)
	case []byte:
		*s = ParseSkills(string(v))
	default:
		return fmt.Errorf("model: cannot scan %T into SkillList", src)
	}
	return nil
}

// MarshalJSON encodes a nil list as [] rather than null.
func (s SkillList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
