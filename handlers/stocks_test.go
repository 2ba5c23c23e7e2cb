package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"paper-trader/database"
	"paper-trader/models"
)

func stockRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.GET("/stocks/:id", GetStock)
	return router
}

type stockDetailResponse struct {
	Form struct {
		Action string          `json:"action"`
		Price  decimal.Decimal `json:"price"`
	} `json:"form"`
}

func getDetail(t *testing.T, router *gin.Engine, path string) stockDetailResponse {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp stockDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestGetStock_SeedsBuyWithoutHolding(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	stock := database.CreateTestStock(t, db, "AAPL", usd)
	account := database.CreateTestAccount(t, db, "1000", usd)

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	resp := getDetail(t, stockRouter(user.ID), "/stocks/"+itoa(stock.ID))

	if resp.Form.Action != "buy" {
		t.Errorf("Expected seeded action buy, got %q", resp.Form.Action)
	}
	if !resp.Form.Price.IsPositive() {
		t.Errorf("Expected positive suggested price, got %s", resp.Form.Price)
	}
}

func TestGetStock_SeedsSellWithHolding(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	stock := database.CreateTestStock(t, db, "AAPL", usd)
	account := database.CreateTestAccount(t, db, "1000", usd)

	holding := models.AccountStock{
		AccountID:      account.ID,
		StockID:        stock.ID,
		Amount:         3,
		AverageBuyCost: decimal.NewFromInt(100),
	}
	if err := db.Create(&holding).Error; err != nil {
		t.Fatalf("Failed to create holding: %v", err)
	}

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	resp := getDetail(t, stockRouter(user.ID), "/stocks/"+itoa(stock.ID))

	if resp.Form.Action != "sell" {
		t.Errorf("Expected seeded action sell, got %q", resp.Form.Action)
	}
}

func TestGetStock_ZeroAmountHoldingSeedsBuy(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	stock := database.CreateTestStock(t, db, "AAPL", usd)
	account := database.CreateTestAccount(t, db, "1000", usd)

	// A zero-amount row should never persist, but if one sneaks in it
	// must not flip the default to sell.
	holding := models.AccountStock{
		AccountID:      account.ID,
		StockID:        stock.ID,
		Amount:         0,
		AverageBuyCost: decimal.Zero,
	}
	if err := db.Create(&holding).Error; err != nil {
		t.Fatalf("Failed to create holding: %v", err)
	}

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	resp := getDetail(t, stockRouter(user.ID), "/stocks/"+itoa(stock.ID))

	if resp.Form.Action != "buy" {
		t.Errorf("Expected seeded action buy for zero-amount holding, got %q", resp.Form.Action)
	}
}
