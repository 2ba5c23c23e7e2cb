package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paper-trader/config"
	"paper-trader/models"
)

type AuthInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates the user together with their trading account and a
// starting cash balance in the default currency.
func Signup(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	err := config.DB.Where("email = ?", input.Email).First(&existingUser).Error

	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}

	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	startingBalance, err := decimal.NewFromString(config.C.Trading.StartingBalance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid starting balance configuration"})
		return
	}

	user := models.User{
		Email:    input.Email,
		Password: string(hashedPassword),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		account := models.Account{UserID: user.ID}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		var currency models.Currency
		if err := tx.Where(models.Currency{Code: config.C.Trading.DefaultCurrency}).First(&currency).Error; err != nil {
			return err
		}

		balance := models.AccountCurrency{
			AccountID:  account.ID,
			CurrencyID: currency.ID,
			Amount:     startingBalance,
		}
		return tx.Create(&balance).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func Login(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find user
	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(config.C.Auth.AccessTTL).Unix(),
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	jwtSecret := config.C.Auth.JWTSecret
	accessToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token", "details": err.Error()})
		return
	}

	// Generate refresh token
	refreshClaims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(config.C.Auth.RefreshTTL).Unix(),
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)

	refreshTokenString, err := refreshToken.SignedString([]byte(jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating refresh token", "details": err.Error()})
		return
	}

	// Store refresh token in Redis
	err = config.Rdb.Set(context.Background(), refreshTokenString, user.ID, config.C.Auth.RefreshTTL).Err()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing refresh token", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshTokenString,
	})
}

// accountOf resolves the authenticated user's trading account. Aborts the
// request when none exists.
func accountOf(c *gin.Context) (models.Account, bool) {
	userID := c.MustGet("user_id").(uint)

	var account models.Account
	if err := config.DB.Where(models.Account{UserID: userID}).First(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account not found"})
		return models.Account{}, false
	}
	return account, true
}
