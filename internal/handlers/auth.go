package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/services"
	"github.com/validately/startup-validator-backend/internal/types"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type userEcho struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid request body"))
		return
	}
	user := types.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	created, token, err := ah.authService.RegisterUser(c.Request.Context(), &user)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": userEcho{
			ID:       created.ID.String(),
			Username: created.Username,
			Email:    created.Email,
		},
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid request body"))
		return
	}
	user, token, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"token": token,
		"user": userEcho{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "logged out successfully"})
}
