package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wesglu/checkbox/internal/apierror"
	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/model"
	"github.com/wesglu/checkbox/internal/receipt"
	"github.com/wesglu/checkbox/internal/repository"
	"github.com/wesglu/checkbox/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// minPrice is one cent, the smallest chargeable line price.
var minPrice = decimal.New(1, -2)

type CheckService interface {
	Create(ctx context.Context, userID uint, req dto.CreateCheckRequest) (*dto.CheckResponse, error)
	Get(ctx context.Context, id uuid.UUID, userID uint) (*dto.CheckResponse, error)
	// GetAggregate serves the public receipt endpoints; no ownership check.
	GetAggregate(ctx context.Context, id uuid.UUID) (*model.Check, error)
	List(ctx context.Context, userID uint, filter dto.CheckFilter) ([]dto.CheckResponse, error)
}

type checkService struct {
	repo       repository.CheckRepository
	users      repository.UserRepository
	dispatcher *worker.Dispatcher
}

func NewCheckService(repo repository.CheckRepository, users repository.UserRepository, dispatcher *worker.Dispatcher) CheckService {
	return &checkService{repo: repo, users: users, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create validates the request, computes totals, and persists the check with
// its positions and payment as one atomic unit:
//  1. Validate positions and payment (synchronously, before any write)
//  2. total = Σ price×quantity; rest = amount − total; rest < 0 → reject
//  3. BEGIN TX: insert check, positions, payment; COMMIT
//  4. (async) enqueue receipt email if a customer email was supplied
func (s *checkService) Create(ctx context.Context, userID uint, req dto.CreateCheckRequest) (*dto.CheckResponse, error) {
	if len(req.Positions) == 0 {
		return nil, fmt.Errorf("%w: check needs at least one position", apierror.ErrInvalidInput)
	}
	paymentType := model.PaymentType(req.Payment.Type)
	if !paymentType.Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", apierror.ErrInvalidInput, req.Payment.Type)
	}
	if !req.Payment.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apierror.ErrInvalidInput)
	}

	total := decimal.Zero
	positions := make([]model.Position, 0, len(req.Positions))
	for _, p := range req.Positions {
		if p.Price.LessThan(minPrice) {
			return nil, fmt.Errorf("%w: position %q price must be at least 0.01", apierror.ErrInvalidInput, p.Name)
		}
		if p.Quantity < 1 {
			return nil, fmt.Errorf("%w: position %q quantity must be at least 1", apierror.ErrInvalidInput, p.Name)
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		total = total.Add(lineTotal)
		positions = append(positions, model.Position{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    lineTotal,
		})
	}

	rest := req.Payment.Amount.Sub(total)
	if rest.IsNegative() {
		return nil, apierror.ErrInsufficientPayment
	}

	check := &model.Check{
		ID:     uuid.New(),
		UserID: userID,
		Total:  total,
		Rest:   rest,
		Positions: positions,
		Payment: model.Payment{
			Type:   paymentType,
			Amount: req.Payment.Amount,
		},
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(ctx, tx, check)
	})
	if txErr != nil {
		return nil, fmt.Errorf("create check: %w", txErr)
	}

	if check.CreatedAt.IsZero() {
		check.CreatedAt = time.Now()
	}

	// Receipt email — best effort, fire & forget; never affects the result.
	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		if owner, err := s.users.FindByID(ctx, userID); err == nil {
			check.User = owner
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				ToEmail: *req.CustomerEmail,
				Subject: "Ваш чек",
				Body:    receipt.Text(check),
			})
		}
	}

	return checkToResponse(check), nil
}

func (s *checkService) Get(ctx context.Context, id uuid.UUID, userID uint) (*dto.CheckResponse, error) {
	check, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, err
	}
	// Owner-only: a foreign check reads as absent rather than forbidden, so
	// ids cannot be probed for existence.
	if check.UserID != userID {
		return nil, apierror.ErrNotFound
	}
	return checkToResponse(check), nil
}

func (s *checkService) GetAggregate(ctx context.Context, id uuid.UUID) (*model.Check, error) {
	check, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, err
	}
	return check, nil
}

func (s *checkService) List(ctx context.Context, userID uint, filter dto.CheckFilter) ([]dto.CheckResponse, error) {
	if filter.DatePreset == "" {
		filter.DatePreset = string(model.PresetAll)
	}
	if !model.DatePreset(filter.DatePreset).Valid() {
		return nil, fmt.Errorf("%w: unknown date preset %q", apierror.ErrInvalidInput, filter.DatePreset)
	}
	if filter.PaymentType != "" && !model.PaymentType(filter.PaymentType).Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", apierror.ErrInvalidInput, filter.PaymentType)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	checks, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(checks) == 0 {
		return nil, apierror.ErrNotFound
	}

	resp := make([]dto.CheckResponse, 0, len(checks))
	for i := range checks {
		resp = append(resp, *checkToResponse(&checks[i]))
	}
	return resp, nil
}

// checkToResponse rounds all money fields to 2 decimal places for display.
// Stored values keep full precision.
func checkToResponse(c *model.Check) *dto.CheckResponse {
	positions := make([]dto.PositionResponse, 0, len(c.Positions))
	for _, p := range c.Positions {
		positions = append(positions, dto.PositionResponse{
			Name:     p.Name,
			Price:    p.Price.Round(2),
			Quantity: p.Quantity,
			Total:    p.Total.Round(2),
		})
	}
	return &dto.CheckResponse{
		ID:        c.ID.String(),
		Positions: positions,
		Payment: dto.PaymentResponse{
			Type:   string(c.Payment.Type),
			Amount: c.Payment.Amount.Round(2),
		},
		Total:     c.Total.Round(2),
		Rest:      c.Rest.Round(2),
		CreatedAt: c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
