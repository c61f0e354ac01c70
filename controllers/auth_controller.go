package controllers

import (
	"net/http"

	"wellness/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type VerifyInput struct {
	Email            string `json:"email" binding:"required"`
	VerificationCode string `json:"verificationCode" binding:"required"`
	Type             string `json:"type" binding:"required"`
}

type ResendInput struct {
	Email string `json:"email" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input services.SignupInput
	if !bindJSON(c, &input) {
		return
	}
	token, err := ac.Auth.Signup(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (ac *AuthController) Verify(c *gin.Context) {
	var input VerifyInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ac.Auth.Verify(c.Request.Context(), input.Email, input.VerificationCode, input.Type); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification successful"})
}

func (ac *AuthController) ResendVerification(c *gin.Context) {
	var input ResendInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ac.Auth.ResendVerification(c.Request.Context(), input.Email, input.Type); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}
	token, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (ac *AuthController) CurrentUser(c *gin.Context) {
	user, err := ac.Auth.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) CheckUsername(c *gin.Context) {
	ok, err := ac.Auth.UsernameAvailable(c.Request.Context(), c.Query("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": ok})
}

func (ac *AuthController) DeleteUser(c *gin.Context) {
	id, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	if err := ac.Auth.DeleteUser(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
