package controllers

import (
	"net/http"
	"time"

	"marina-backend/monitoring"
	"marina-backend/services"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
)

type IssueCodePayload struct {
	Email string `json:"email" binding:"required,email"`
}

type RedeemCodePayload struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type VerificationController struct {
	VerificationSvc *services.VerificationService
	Notifier        services.Notifier
	JWTSecret       string
	TokenTTL        time.Duration
	ExposeCode      bool // development only: echo the code in the response
}

func NewVerificationController(svc *services.VerificationService, notifier services.Notifier, jwtSecret string, tokenTTL time.Duration, exposeCode bool) *VerificationController {
	return &VerificationController{
		VerificationSvc: svc,
		Notifier:        notifier,
		JWTSecret:       jwtSecret,
		TokenTTL:        tokenTTL,
		ExposeCode:      exposeCode,
	}
}

// IssueCode creates a fresh verification code for the subject and delivers
// it out of band. Issuing again invalidates the previous code.
func (vc *VerificationController) IssueCode(c *gin.Context) {
	var payload IssueCodePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	code, expiresAt, err := vc.VerificationSvc.Issue(c.Request.Context(), payload.Email)
	if err != nil {
		monitoring.RecordVerification("issue", "error")
		respondError(c, err)
		return
	}

	go vc.Notifier.CodeIssued(payload.Email, code, expiresAt)
	monitoring.RecordVerification("issue", "ok")

	resp := gin.H{"expires_at": expiresAt}
	if vc.ExposeCode {
		resp["code"] = code
	}
	utils.JSONSuccess(c, http.StatusCreated, resp)
}

// RedeemCode validates a code and mints an access token for the verified
// subject. A code redeems exactly once.
func (vc *VerificationController) RedeemCode(c *gin.Context) {
	var payload RedeemCodePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	subject, err := vc.VerificationSvc.Redeem(c.Request.Context(), payload.Email, payload.Code)
	if err != nil {
		monitoring.RecordVerification("redeem", "rejected")
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(vc.JWTSecret, subject, "verified", vc.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	monitoring.RecordVerification("redeem", "ok")
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"subject": subject,
		"token":   token,
	})
}
