package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/wesglu/checkbox/internal/apierror"
	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/model"
	"github.com/wesglu/checkbox/internal/repository"
	"github.com/wesglu/checkbox/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCheckRepo is an in-memory CheckRepository for testing.
type stubCheckRepo struct {
	checks map[uuid.UUID]*model.Check
	now    time.Time
}

func newStubCheckRepo() *stubCheckRepo {
	return &stubCheckRepo{checks: make(map[uuid.UUID]*model.Check), now: time.Now()}
}

func (r *stubCheckRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.Check) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = r.now
	for i := range c.Positions {
		c.Positions[i].CheckID = c.ID
	}
	c.Payment.CheckID = c.ID
	stored := *c
	r.checks[c.ID] = &stored
	return nil
}

func (r *stubCheckRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Check, error) {
	c, ok := r.checks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCheckRepo) List(_ context.Context, userID uint, filter dto.CheckFilter) ([]model.Check, error) {
	var out []model.Check
	for _, c := range r.checks {
		if c.UserID != userID {
			continue
		}
		if days, ok := model.DatePreset(filter.DatePreset).WindowDays(); ok {
			cutoff := time.Now().AddDate(0, 0, -days)
			cutoffDate := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location())
			if c.CreatedAt.Before(cutoffDate) {
				continue
			}
		}
		if filter.TotalGE != nil && c.Total.LessThan(decimal.NewFromFloat(*filter.TotalGE)) {
			continue
		}
		if filter.TotalLE != nil && c.Total.GreaterThan(decimal.NewFromFloat(*filter.TotalLE)) {
			continue
		}
		if filter.PaymentType != "" && string(c.Payment.Type) != filter.PaymentType {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *stubCheckRepo) DB() *gorm.DB { return nil }

var _ repository.CheckRepository = (*stubCheckRepo)(nil)

// stubUserRepo provides a single known owner.
type stubUserRepo struct {
	users map[uint]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uint]*model.User{
		1: {ID: 1, Name: "John Doe", Login: "john.doe", IsActive: true},
		2: {ID: 2, Name: "Jane Roe", Login: "jane.roe", IsActive: true},
	}}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uint(len(r.users) + 1)
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range r.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func buildCheckSvc() (service.CheckService, *stubCheckRepo) {
	repo := newStubCheckRepo()
	return service.NewCheckService(repo, newStubUserRepo(), nil), repo
}

func createReq(amount string) dto.CreateCheckRequest {
	return dto.CreateCheckRequest{
		Positions: []dto.PositionRequest{
			{Name: "apples", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{Name: "juice", Price: decimal.RequireFromString("5.50"), Quantity: 1},
		},
		Payment: dto.PaymentRequest{Type: "cash", Amount: decimal.RequireFromString(amount)},
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreateCheckComputesTotalAndRest(t *testing.T) {
	svc, repo := buildCheckSvc()

	resp, err := svc.Create(context.Background(), 1, createReq("30.00"))
	require.NoError(t, err)

	assert.Equal(t, "25.5", resp.Total.String())
	assert.Equal(t, "4.5", resp.Rest.String())
	require.Len(t, resp.Positions, 2)
	assert.Equal(t, "20", resp.Positions[0].Total.String())
	assert.Equal(t, "5.5", resp.Positions[1].Total.String())
	assert.Equal(t, "cash", resp.Payment.Type)
	assert.Len(t, repo.checks, 1)
}

func TestCreateCheckInsufficientPayment(t *testing.T) {
	svc, repo := buildCheckSvc()

	_, err := svc.Create(context.Background(), 1, createReq("20.00"))
	require.ErrorIs(t, err, apierror.ErrInsufficientPayment)

	// No partial writes: nothing persisted at all.
	assert.Empty(t, repo.checks)
}

func TestCreateCheckExactPaymentHasZeroRest(t *testing.T) {
	svc, _ := buildCheckSvc()

	resp, err := svc.Create(context.Background(), 1, createReq("25.50"))
	require.NoError(t, err)
	assert.True(t, resp.Rest.IsZero())
}

func TestCreateCheckValidation(t *testing.T) {
	svc, repo := buildCheckSvc()
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateCheckRequest
	}{
		{"no positions", dto.CreateCheckRequest{
			Payment: dto.PaymentRequest{Type: "cash", Amount: decimal.NewFromInt(10)},
		}},
		{"unknown payment type", dto.CreateCheckRequest{
			Positions: []dto.PositionRequest{{Name: "a", Price: decimal.NewFromInt(1), Quantity: 1}},
			Payment:   dto.PaymentRequest{Type: "crypto", Amount: decimal.NewFromInt(10)},
		}},
		{"zero price", dto.CreateCheckRequest{
			Positions: []dto.PositionRequest{{Name: "a", Price: decimal.Zero, Quantity: 1}},
			Payment:   dto.PaymentRequest{Type: "cash", Amount: decimal.NewFromInt(10)},
		}},
		{"sub-cent price", dto.CreateCheckRequest{
			Positions: []dto.PositionRequest{{Name: "a", Price: decimal.RequireFromString("0.005"), Quantity: 1}},
			Payment:   dto.PaymentRequest{Type: "cash", Amount: decimal.NewFromInt(10)},
		}},
		{"zero quantity", dto.CreateCheckRequest{
			Positions: []dto.PositionRequest{{Name: "a", Price: decimal.NewFromInt(1), Quantity: 0}},
			Payment:   dto.PaymentRequest{Type: "cash", Amount: decimal.NewFromInt(10)},
		}},
		{"zero amount", dto.CreateCheckRequest{
			Positions: []dto.PositionRequest{{Name: "a", Price: decimal.NewFromInt(1), Quantity: 1}},
			Payment:   dto.PaymentRequest{Type: "cash", Amount: decimal.Zero},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tc.req)
			assert.ErrorIs(t, err, apierror.ErrInvalidInput)
		})
	}
	assert.Empty(t, repo.checks)
}

func TestCreateCheckDecimalPrecision(t *testing.T) {
	svc, _ := buildCheckSvc()

	// 0.1 × 3 must be exactly 0.30, not 0.30000000000000004.
	req := dto.CreateCheckRequest{
		Positions: []dto.PositionRequest{{Name: "gum", Price: decimal.RequireFromString("0.10"), Quantity: 3}},
		Payment:   dto.PaymentRequest{Type: "cashless", Amount: decimal.RequireFromString("0.30")},
	}
	resp, err := svc.Create(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, "0.3", resp.Total.String())
	assert.True(t, resp.Rest.IsZero())
}

// ── Get ───────────────────────────────────────────────────────────────────────

func TestGetCheckRoundTrip(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, createReq("30.00"))
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, uuid.MustParse(created.ID), 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Positions, fetched.Positions)
	assert.Equal(t, created.Payment, fetched.Payment)
	assert.True(t, created.Total.Equal(fetched.Total))
	assert.True(t, created.Rest.Equal(fetched.Rest))
}

func TestGetCheckTimestampIsUTC(t *testing.T) {
	svc, repo := buildCheckSvc()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, createReq("30.00"))
	require.NoError(t, err)

	// A check stored with a zoned timestamp must still read back in UTC.
	id := uuid.MustParse(created.ID)
	repo.checks[id].CreatedAt = time.Date(2026, 2, 1, 14, 5, 0, 0, time.FixedZone("EET", 2*60*60))

	fetched, err := svc.Get(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01T12:05:00Z", fetched.CreatedAt)
}

func TestGetCheckUnknownID(t *testing.T) {
	svc, _ := buildCheckSvc()

	_, err := svc.Get(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestGetCheckOwnerOnly(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, createReq("30.00"))
	require.NoError(t, err)

	// A foreign check reads as absent, not forbidden.
	_, err = svc.Get(ctx, uuid.MustParse(created.ID), 2)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

// ── List ──────────────────────────────────────────────────────────────────────

func listFilter() dto.CheckFilter {
	return dto.CheckFilter{DatePreset: "all", Offset: 0, Limit: 100}
}

func TestListChecksScopedToOwner(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, createReq("30.00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, createReq("30.00"))
	require.NoError(t, err)

	mine, err := svc.List(ctx, 1, listFilter())
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListChecksEmptyIsNotFound(t *testing.T) {
	svc, _ := buildCheckSvc()

	_, err := svc.List(context.Background(), 1, listFilter())
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestListChecksTodayIncludesFreshCheck(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, createReq("30.00"))
	require.NoError(t, err)

	for _, preset := range []string{"today", "last_3_days", "last_7_days", "last_month", "last_year", "all"} {
		f := listFilter()
		f.DatePreset = preset
		got, err := svc.List(ctx, 1, f)
		require.NoError(t, err, preset)
		assert.Len(t, got, 1, preset)
	}
}

func TestListChecksTotalBounds(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, createReq("30.00")) // total 25.50
	require.NoError(t, err)

	ge, le := 25.50, 25.50
	f := listFilter()
	f.TotalGE = &ge
	f.TotalLE = &le
	got, err := svc.List(ctx, 1, f)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	ge = 26.00
	f = listFilter()
	f.TotalGE = &ge
	_, err = svc.List(ctx, 1, f)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestListChecksPaymentTypeFilter(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, createReq("30.00")) // cash
	require.NoError(t, err)

	f := listFilter()
	f.PaymentType = "cashless"
	_, err = svc.List(ctx, 1, f)
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	f.PaymentType = "cash"
	got, err := svc.List(ctx, 1, f)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListChecksPagination(t *testing.T) {
	svc, _ := buildCheckSvc()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, 1, createReq("30.00"))
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 1, listFilter())
	require.NoError(t, err)
	require.Len(t, all, 5)

	// offset/limit slices the same ordering contiguously, each id exactly once.
	seen := make(map[string]bool)
	for offset := 0; offset < 5; offset += 2 {
		f := listFilter()
		f.Offset = offset
		f.Limit = 2
		page, err := svc.List(ctx, 1, f)
		require.NoError(t, err)
		for i, c := range page {
			assert.Equal(t, all[offset+i].ID, c.ID)
			assert.False(t, seen[c.ID])
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestListChecksInvalidPreset(t *testing.T) {
	svc, _ := buildCheckSvc()

	f := listFilter()
	f.DatePreset = "yesterday"
	_, err := svc.List(context.Background(), 1, f)
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)
}
