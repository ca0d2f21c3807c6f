package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PositionRequest struct {
	Name     string          `json:"name"     validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"    validate:"required,gte=0.01"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
}

type PaymentRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=cash cashless"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type CreateCheckRequest struct {
	Positions []PositionRequest `json:"positions" validate:"required,min=1,dive"`
	Payment   PaymentRequest    `json:"payment"   validate:"required"`
	// CustomerEmail: optional — when present, the email worker mails the receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// CheckFilter is bound from the query string of GET /check/get-all.
// Total bounds bind as floats (gin cannot form-bind decimal.Decimal) and are
// converted to decimals at the repository boundary.
type CheckFilter struct {
	DatePreset  string   `form:"date_preset,default=all" validate:"omitempty,oneof=all today last_3_days last_7_days last_month last_year"`
	TotalGE     *float64 `form:"total_ge"`
	TotalLE     *float64 `form:"total_le"`
	PaymentType string   `form:"payment_type" validate:"omitempty,oneof=cash cashless"`
	Offset      int      `form:"offset,default=0"  validate:"min=0"`
	Limit       int      `form:"limit,default=100" validate:"min=1,max=1000"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PositionResponse struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type PaymentResponse struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type CheckResponse struct {
	ID        string             `json:"id"`
	Positions []PositionResponse `json:"positions"`
	Payment   PaymentResponse    `json:"payment"`
	Total     decimal.Decimal    `json:"total"`
	Rest      decimal.Decimal    `json:"rest"`
	CreatedAt string             `json:"created_at"`
}
