package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/app"
	"tcg-backend/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrConflict):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			log.Printf("sign-up failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "server error")
		}
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"message": "user created",
		"token":   result.Token,
		"userCreated": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, err.Error())
		default:
			log.Printf("sign-in failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "server error")
		}
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "signed in",
		"token":   result.Token,
		"user": gin.H{
			"id":    result.User.ID,
			"name":  result.User.Username,
			"email": result.User.Email,
		},
	})
}
