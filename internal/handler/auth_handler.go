package handler

import (
	"net/http"

	"sigrap/internal/authz"
	"sigrap/internal/middleware"
	"sigrap/internal/service"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService service.UserService
	evaluator   *authz.Evaluator
}

// NewAuthHandler sets up the routing dependencies for authentication endpoints
func NewAuthHandler(userService service.UserService, evaluator *authz.Evaluator) *AuthHandler {
	return &AuthHandler{userService: userService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.GetMe)
		auth.GET("/check", middleware.RequireAuth(), h.Check)
	}
}

// Login authenticates a user and issues a token pair
// @Summary      Login user
// @Description  Validates credentials and returns access/refresh tokens, also set as HttpOnly cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Payload"
// @Success      200      {object}  response.Response{data=service.TokenPairResponse}
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tokens, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// RefreshToken rotates the refresh token and issues a new pair
// @Summary      Refresh token
// @Description  Exchanges a valid refresh token for a new access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenPairResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if bindErr := c.ShouldBindJSON(&body); bindErr != nil || body.RefreshToken == "" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is missing"))
			return
		}
		refreshToken = body.RefreshToken
	}

	tokens, err := h.userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		middleware.ClearTokenCookies(c)
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout invalidates the refresh token and clears cookies
// @Summary      Logout user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie("refresh_token"); err == nil && refreshToken != "" {
		_ = h.userService.Logout(c.Request.Context(), refreshToken)
	}
	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// GetMe returns the caller's profile and effective permissions
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	subject := middleware.SubjectFrom(c)
	profile, err := h.userService.Profile(c.Request.Context(), subject.ID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// Check answers whether the caller may perform an action on a resource
// @Summary      Check permission
// @Description  Evaluates the caller's role against the authorization table for one (resource, action) pair
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        resource  query  string  true  "Resource tag, e.g. PRODUCT"
// @Param        action    query  string  true  "Action tag, e.g. CREATE"
// @Success      200  {object}  response.Response
// @Router       /auth/check [get]
func (h *AuthHandler) Check(c *gin.Context) {
	resource := authz.ParseResource(c.Query("resource"))
	action := authz.ParseAction(c.Query("action"))
	if resource == "" || action == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "resource and action query params are required"))
		return
	}

	subject := middleware.SubjectFrom(c)
	allowed := h.evaluator.Authorize(subject, resource, action)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"resource": resource,
		"action":   action,
		"allowed":  allowed,
	}))
}
