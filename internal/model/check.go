package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType is the closed set of settlement methods.
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentCashless PaymentType = "cashless"
)

func (t PaymentType) Valid() bool {
	return t == PaymentCash || t == PaymentCashless
}

// DatePreset names a relative time window for check listings.
type DatePreset string

const (
	PresetAll      DatePreset = "all"
	PresetToday    DatePreset = "today"
	PresetLast3d   DatePreset = "last_3_days"
	PresetLast7d   DatePreset = "last_7_days"
	PresetLastMon  DatePreset = "last_month"
	PresetLastYear DatePreset = "last_year"
)

// WindowDays returns the preset's lookback in calendar days and whether the
// preset restricts the listing at all.
func (p DatePreset) WindowDays() (int, bool) {
	switch p {
	case PresetToday:
		return 0, true
	case PresetLast3d:
		return 3, true
	case PresetLast7d:
		return 7, true
	case PresetLastMon:
		return 30, true
	case PresetLastYear:
		return 365, true
	default:
		return 0, false
	}
}

func (p DatePreset) Valid() bool {
	if p == PresetAll {
		return true
	}
	_, ok := p.WindowDays()
	return ok
}

// Check is the receipt aggregate root. Immutable after creation: no update
// or delete paths exist anywhere in the system.
// Invariants: Total = Σ position totals; Rest = payment amount − Total; Rest >= 0.
type Check struct {
	// Random UUID so ids leak neither row order nor row count.
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uint            `gorm:"index;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Rest      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"index"`

	Positions []Position `gorm:"foreignKey:CheckID"`
	Payment   Payment    `gorm:"foreignKey:CheckID"`
	User      *User      `gorm:"foreignKey:UserID"`
}

func (Check) TableName() string { return "checks" }

// Position is a single line item, owned exclusively by one Check.
type Position struct {
	ID       uint            `gorm:"primaryKey"`
	Name     string          `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity int             `gorm:"not null"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CheckID  uuid.UUID       `gorm:"type:uuid;index;not null"`
}

// Payment is the single settlement record for a Check.
type Payment struct {
	ID      uint            `gorm:"primaryKey"`
	Type    PaymentType     `gorm:"type:varchar(20);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CheckID uuid.UUID       `gorm:"type:uuid;index;not null"`
}
