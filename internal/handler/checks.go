package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/wesglu/checkbox/internal/apierror"
	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/middleware"
	"github.com/wesglu/checkbox/internal/receipt"
	"github.com/wesglu/checkbox/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Checks are immutable, so rendered receipt text can be cached indefinitely;
// the TTL only bounds Redis memory.
const receiptCacheTTL = 24 * time.Hour

type ChecksHandler struct {
	svc service.CheckService
	rdb *redis.Client
}

func NewChecksHandler(svc service.CheckService, rdb *redis.Client) *ChecksHandler {
	return &ChecksHandler{svc: svc, rdb: rdb}
}

// Create godoc
// @Summary      Create a new check
// @Description  Creates a check with the provided positions and payment. The whole write is atomic.
// @Tags         check
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCheckRequest true "Positions and payment"
// @Success      201 {object} dto.CheckResponse
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /check/create [post]
func (h *ChecksHandler) Create(c *gin.Context) {
	var req dto.CreateCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID := middleware.GetUserID(c)

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAll godoc
// @Summary      Retrieve all checks
// @Description  Lists the caller's checks, newest first, with optional date/total/payment-type filters.
// @Tags         check
// @Produce      json
// @Security     BearerAuth
// @Param        date_preset  query string false "all | today | last_3_days | last_7_days | last_month | last_year"
// @Param        total_ge     query number false "Inclusive lower bound on total"
// @Param        total_le     query number false "Inclusive upper bound on total"
// @Param        payment_type query string false "cash | cashless"
// @Param        offset       query int    false "Pagination offset (default 0)"
// @Param        limit        query int    false "Pagination limit (default 100)"
// @Success      200 {array}  dto.CheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /check/get-all [get]
func (h *ChecksHandler) GetAll(c *gin.Context) {
	var filter dto.CheckFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	userID := middleware.GetUserID(c)

	resp, err := h.svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Retrieve a specific check
// @Tags         check
// @Produce      json
// @Security     BearerAuth
// @Param        check_id query string true "Check UUID"
// @Success      200 {object} dto.CheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /check/get [get]
func (h *ChecksHandler) Get(c *gin.Context) {
	id, ok := checkIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	resp, err := h.svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetText godoc
// @Summary      Retrieve the plain-text receipt
// @Description  Public endpoint: the check id printed on a receipt is the sharing credential.
// @Tags         check
// @Produce      plain
// @Param        check_id query string true "Check UUID"
// @Success      200 {string} string
// @Failure      404 {object} apierror.APIError
// @Router       /check/get-text [get]
func (h *ChecksHandler) GetText(c *gin.Context) {
	id, ok := checkIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cacheKey := "receipt:" + id.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
		c.String(http.StatusOK, cached)
		return
	}

	// 2. Cache miss — query DB and render
	check, err := h.svc.GetAggregate(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	text := receipt.Text(check)

	// 3. Populate cache — best effort, ignore errors
	_ = h.rdb.Set(context.Background(), cacheKey, text, receiptCacheTTL).Err()

	c.String(http.StatusOK, text)
}

// GetPDF godoc
// @Summary      Retrieve the receipt as PDF
// @Tags         check
// @Produce      application/pdf
// @Param        check_id query string true "Check UUID"
// @Success      200 {string} binary
// @Failure      404 {object} apierror.APIError
// @Router       /check/get-pdf [get]
func (h *ChecksHandler) GetPDF(c *gin.Context) {
	id, ok := checkIDParam(c)
	if !ok {
		return
	}

	check, err := h.svc.GetAggregate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := receipt.PDF(check)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func checkIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("check_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid check_id"))
		return uuid.Nil, false
	}
	return id, true
}
