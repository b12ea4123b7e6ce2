package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	Hospital        string `json:"hospital"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.authSvc.Register(c.Request.Context(), &service.RegisterCommand{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Hospital:        req.Hospital,
		Specialization:  req.Specialization,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, d)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout invalidates the caller's session. The refresh token is optional in
// the body; the access token comes from the Authorization header.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	// An empty body is fine.
	_ = c.ShouldBindJSON(&req)

	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "no active session")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims, req.RefreshToken, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "logged out"})
}
