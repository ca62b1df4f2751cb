package controllers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"research-achievement-api/config"
	"research-achievement-api/models"
	"research-achievement-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sendResetMail is swappable so tests don't need a live SMTP server.
var sendResetMail = func(to, subject, body string) error {
	return config.SendMail([]string{to}, subject, body)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword issues a reset token and mails it. The response is the same
// whether or not the email exists, so the endpoint can't be used to probe for
// registered addresses.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	neutral := gin.H{"message": "If the email is registered, a reset link has been sent"}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, neutral)
		return
	}

	token := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := config.DB.Create(&token).Error; err != nil {
		log.Printf("password reset: failed to store token for %s: %v", user.Email, err)
		c.JSON(http.StatusOK, neutral)
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s",
		os.Getenv("FRONTEND_URL"), url.QueryEscape(token.Token))
	body := fmt.Sprintf(
		"<p>您好 %s，</p><p>请在一小时内通过以下链接重置密码：</p><p><a href=%q>%s</a></p><p>如果这不是您本人的操作，请忽略此邮件。</p>",
		user.Name, resetURL, resetURL)

	if err := sendResetMail(user.Email, "密码重置", body); err != nil {
		log.Printf("password reset: failed to send mail to %s: %v", user.Email, err)
	}

	c.JSON(http.StatusOK, neutral)
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}
	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var token models.PasswordResetToken
	if err := config.DB.Where("token = ?", req.Token).First(&token).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	now := time.Now()
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Updates(map[string]interface{}{
				"password":   hashed,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&token).Update("used_at", now).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
