package mockapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest is the gateway login body; Username carries the email
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the gateway login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// StatusResponse is the generic success/message body
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account Account
	if err := s.db.Where("email = ?", req.Username).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !checkPassword(account.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.generateToken(&account)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	s.recordActivity(account.ID, "login", "Logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   account.ID,
		UserName: account.DisplayName(),
	})
}

// RegisterRequest is the account creation body
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing Account
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "email already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error().Err(err).Msg("Failed to look up account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	code, err := newCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	account := Account{
		Email:            req.Email,
		PasswordHash:     passwordHash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ConfirmationCode: code,
	}

	if err := s.db.Create(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	// The "email" with the confirmation code
	s.logger.Info().Str("email", account.Email).Str("code", code).Msg("Confirmation code issued")

	s.recordActivity(account.ID, "register", "Account created")

	c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "account created, confirmation code sent"})
}

type confirmRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) confirmAccount(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account Account
	err := s.db.Where("confirmation_code = ? AND confirmed = ?", req.Token, false).First(&account).Error
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "invalid or expired code"})
		return
	}

	account.Confirmed = true
	account.ConfirmationCode = ""
	if err := s.db.Save(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to confirm account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm account"})
		return
	}

	s.recordActivity(account.ID, "confirm", "Account confirmed")

	c.JSON(http.StatusOK, StatusResponse{Success: true})
}

type recoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// requestRecovery issues a recovery code by email. For accounts that
// are still unconfirmed it re-issues the confirmation code instead;
// the platform has no separate resend endpoint and the confirm page
// leans on this one.
func (s *Server) requestRecovery(c *gin.Context) {
	var req recoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account Account
	if err := s.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		// Do not reveal whether the address exists
		c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "if the address exists, a code has been sent"})
		return
	}

	code, err := newCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate code"})
		return
	}

	if account.Confirmed {
		account.RecoveryCode = code
		s.logger.Info().Str("email", account.Email).Str("code", code).Msg("Recovery code issued")
	} else {
		account.ConfirmationCode = code
		s.logger.Info().Str("email", account.Email).Str("code", code).Msg("Confirmation code re-issued")
	}

	if err := s.db.Save(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to store code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate code"})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "if the address exists, a code has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account Account
	if err := s.db.Where("recovery_code = ? AND recovery_code != ''", req.Token).First(&account).Error; err != nil {
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "invalid or expired code"})
		return
	}

	passwordHash, err := hashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	account.PasswordHash = passwordHash
	account.RecoveryCode = ""
	if err := s.db.Save(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to reset password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	s.recordActivity(account.ID, "password", "Password reset")

	c.JSON(http.StatusOK, StatusResponse{Success: true})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account Account
	if err := s.db.First(&account, "id = ?", accountID(c)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}

	if !checkPassword(account.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "current password is incorrect"})
		return
	}

	passwordHash, err := hashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		return
	}

	account.PasswordHash = passwordHash
	if err := s.db.Save(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to change password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		return
	}

	s.recordActivity(account.ID, "password", "Password changed")

	c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// UserProfile is the profile representation the API returns
type UserProfile struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

func profileOf(account *Account) UserProfile {
	return UserProfile{
		ID:          account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
		Address:     account.Address,
	}
}

func (s *Server) getProfile(c *gin.Context) {
	var account Account
	if err := s.db.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, profileOf(&account))
}

type updateProfileRequest struct {
	UserID      string `json:"userId" binding:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Users only update their own profile
	if req.UserID != accountID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user's profile"})
		return
	}

	var account Account
	if err := s.db.First(&account, "id = ?", req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.FirstName != "" {
		account.FirstName = req.FirstName
	}
	if req.LastName != "" {
		account.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		account.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		account.Address = req.Address
	}

	if err := s.db.Save(&account).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	s.recordActivity(account.ID, "profile", "Profile updated")

	c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// UserActivity is the activity representation the API returns
type UserActivity struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func activityOf(activity *Activity) UserActivity {
	return UserActivity{
		ID:          activity.ID,
		UserID:      activity.AccountID,
		Type:        activity.Type,
		Description: activity.Description,
		Date:        activity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) getHistory(c *gin.Context) {
	var activities []Activity
	if err := s.db.Where("account_id = ?", c.Param("id")).Order("created_at desc").Find(&activities).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}

	out := make([]UserActivity, 0, len(activities))
	for i := range activities {
		out = append(out, activityOf(&activities[i]))
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) listAllActivities(c *gin.Context) {
	var activities []Activity
	if err := s.db.Order("created_at desc").Limit(200).Find(&activities).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list activities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}

	out := make([]UserActivity, 0, len(activities))
	for i := range activities {
		out = append(out, activityOf(&activities[i]))
	}

	c.JSON(http.StatusOK, out)
}
