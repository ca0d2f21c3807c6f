package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckRepository interface {
	// CreateTx inserts the check row, then its positions and payment, inside
	// the supplied transaction. Either all rows land or none do.
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Check) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Check, error)
	List(ctx context.Context, userID uint, filter dto.CheckFilter) ([]model.Check, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type checkRepo struct{ db *gorm.DB }

func NewCheckRepository(db *gorm.DB) CheckRepository { return &checkRepo{db: db} }

func (r *checkRepo) DB() *gorm.DB { return r.db }

func (r *checkRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Check) error {
	positions := c.Positions
	payment := c.Payment
	c.Positions = nil
	c.Payment = model.Payment{}

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return err
	}

	// Children reference the freshly assigned check id.
	for i := range positions {
		positions[i].CheckID = c.ID
	}
	payment.CheckID = c.ID

	if err := tx.WithContext(ctx).Create(&positions).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		return err
	}

	c.Positions = positions
	c.Payment = payment
	return nil
}

func (r *checkRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Check, error) {
	var c model.Check
	err := r.db.WithContext(ctx).
		Preload("Positions").Preload("Payment").Preload("User").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkRepo) List(ctx context.Context, userID uint, filter dto.CheckFilter) ([]model.Check, error) {
	q := r.db.WithContext(ctx).Model(&model.Check{}).
		Where("checks.user_id = ?", userID)

	preset := model.DatePreset(filter.DatePreset)
	if days, ok := preset.WindowDays(); ok {
		// Calendar-date window: "today" and every N-day preset include any
		// check created on the boundary date, regardless of time of day.
		since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
		q = q.Where("DATE(checks.created_at) >= ?", since)
	}

	if filter.TotalGE != nil {
		q = q.Where("checks.total >= ?", *filter.TotalGE)
	}
	if filter.TotalLE != nil {
		q = q.Where("checks.total <= ?", *filter.TotalLE)
	}

	if filter.PaymentType != "" {
		q = q.Joins("JOIN payments ON payments.check_id = checks.id").
			Where("payments.type = ?", filter.PaymentType)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var checks []model.Check
	err := q.Preload("Positions").Preload("Payment").Preload("User").
		Order("checks.created_at DESC, checks.id DESC").
		Offset(filter.Offset).Limit(limit).
		Find(&checks).Error
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}
