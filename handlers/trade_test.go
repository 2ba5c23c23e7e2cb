package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"paper-trader/database"
	"paper-trader/models"
)

func TestRedirectToDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stocks/:id/buy", RedirectToDetail)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stocks/42/buy", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/stocks/42" {
		t.Errorf("Expected redirect to /stocks/42, got %s", loc)
	}
}

// tradeRouter wires the trade routes behind a stub auth middleware that
// injects the given user id.
func tradeRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.POST("/stocks/:id/buy", BuyStock)
	router.POST("/stocks/:id/sell", SellStock)
	return router
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestBuyRoute_RejectsSellAction(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	stock := database.CreateTestStock(t, db, "AAPL", usd)
	account := database.CreateTestAccount(t, db, "1000", usd)

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	router := tradeRouter(user.ID)
	w := postForm(router, "/stocks/"+itoa(stock.ID)+"/buy", url.Values{
		"action": {"sell"},
		"amount": {"1"},
		"price":  {"10"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for mismatched action, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSellRoute_NoHolding(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	stock := database.CreateTestStock(t, db, "AAPL", usd)
	account := database.CreateTestAccount(t, db, "1000", usd)

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	router := tradeRouter(user.ID)
	w := postForm(router, "/stocks/"+itoa(stock.ID)+"/sell", url.Values{
		"action": {"sell"},
		"amount": {"1"},
		"price":  {"10"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 when selling without a holding, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "AAPL") {
		t.Errorf("Expected message to name the ticker, got: %s", w.Body.String())
	}
}

func TestTradeRoute_UnknownStock(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)

	usd := database.CreateTestCurrency(t, db, "USD", "$")
	account := database.CreateTestAccount(t, db, "1000", usd)

	var user models.User
	if err := db.First(&user, account.UserID).Error; err != nil {
		t.Fatalf("Failed to load test user: %v", err)
	}

	router := tradeRouter(user.ID)
	w := postForm(router, "/stocks/999999/buy", url.Values{
		"action": {"buy"},
		"amount": {"1"},
		"price":  {"10"},
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown stock, got %d: %s", w.Code, w.Body.String())
	}
}
