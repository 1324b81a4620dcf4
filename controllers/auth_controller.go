package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"marina-backend/middleware"
	"marina-backend/models"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterCustomerPayload struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthController(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// RegisterCustomer creates a boater account.
func (ac *AuthController) RegisterCustomer(c *gin.Context) {
	var payload RegisterCustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	customer := models.Customer{
		FullName: payload.FullName,
		Email:    payload.Email,
		Password: string(hash),
		Phone:    payload.Phone,
	}
	if err := ac.DB.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(c, http.StatusConflict, "email already registered")
			return
		}
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, customer)
}

// CustomerLogin exchanges credentials for a customer token.
func (ac *AuthController) CustomerLogin(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var customer models.Customer
	if err := ac.DB.Where("email = ?", payload.Email).First(&customer).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(ac.JWTSecret, fmt.Sprint(customer.ID), middleware.RoleCustomer, ac.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "customer": customer})
}

// OwnerLogin exchanges credentials for an owner token.
func (ac *AuthController) OwnerLogin(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var owner models.Owner
	if err := ac.DB.Where("email = ?", payload.Email).First(&owner).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(ac.JWTSecret, fmt.Sprint(owner.ID), middleware.RoleOwner, ac.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "owner": owner})
}
