package handler

import (
	"net/http"

	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Signup godoc
// @Summary User signup
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignupRequest true "New user"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} apierror.APIError
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.Signup(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SignupResponse{Message: "User successfully signed up!"})
}

// Signin godoc
// @Summary User signin
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SigninRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Signin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
