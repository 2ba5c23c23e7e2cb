package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"paper-trader/config"
	"paper-trader/models"
	"paper-trader/pricing"
	"paper-trader/trading"
)

const historyLimit = 50

// ListStocks handles GET /stocks.
func ListStocks(c *gin.Context) {
	var stocks []models.Stock
	if err := config.DB.Preload("Currency").Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stocks"})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// stockByID loads the stock for the :id route param, aborting with 404
// when it does not exist.
func stockByID(c *gin.Context) (models.Stock, bool) {
	var stock models.Stock
	err := config.DB.Preload("Currency").First(&stock, c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
		return models.Stock{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return models.Stock{}, false
	}
	return stock, true
}

// GetStock handles GET /stocks/:id. The response carries a trade form
// seed: a suggested price and a default action, "sell" when the caller
// already holds shares of the stock.
func GetStock(c *gin.Context) {
	stock, ok := stockByID(c)
	if !ok {
		return
	}

	account, ok := accountOf(c)
	if !ok {
		return
	}

	action := trading.ActionBuy
	var holding models.AccountStock
	err := config.DB.
		Where("account_id = ? AND stock_id = ? AND amount > 0", account.ID, stock.ID).
		First(&holding).Error
	if err == nil {
		action = trading.ActionSell
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stock": stock,
		"form": gin.H{
			"price":  pricing.Suggest(stock),
			"action": action,
		},
	})
}

// GetStockHistory handles GET /stocks/:id/history, returning the most
// recent generated price snapshots.
func GetStockHistory(c *gin.Context) {
	stock, ok := stockByID(c)
	if !ok {
		return
	}

	var history []models.StockPrice
	err := config.DB.
		Where("stock_id = ?", stock.ID).
		Order("timestamp DESC").
		Limit(historyLimit).
		Find(&history).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticker": stock.Ticker, "history": history})
}
