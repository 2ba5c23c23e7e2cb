package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paper-trader/cache"
	"paper-trader/config"
	"paper-trader/models"
	"paper-trader/report"
)

// GetAccount handles GET /account. The summary is served from the Redis
// cache when present, otherwise projected from the ledger and cached.
func GetAccount(c *gin.Context) {
	account, ok := accountOf(c)
	if !ok {
		return
	}

	summary, err := cache.GetSummary(c.Request.Context(), account.UserID)
	if err == nil {
		c.JSON(http.StatusOK, summary)
		return
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache error"})
		return
	}

	summary, ok = buildSummary(c, account)
	if !ok {
		return
	}

	if err := cache.SetSummary(c.Request.Context(), account.UserID, summary, config.C.Cache.SummaryExpiration); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportAccount handles GET /account/export, responding with an XLSX
// workbook of the summary.
func ExportAccount(c *gin.Context) {
	account, ok := accountOf(c)
	if !ok {
		return
	}

	summary, ok := buildSummary(c, account)
	if !ok {
		return
	}

	fileBytes, err := report.AccountXLSX(summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="account.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", fileBytes)
}

// buildSummary projects the account's ledger rows into a summary.
func buildSummary(c *gin.Context, account models.Account) (cache.Summary, bool) {
	var balances []models.AccountCurrency
	err := config.DB.Preload("Currency").
		Where("account_id = ?", account.ID).
		Find(&balances).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balances"})
		return cache.Summary{}, false
	}

	var holdings []models.AccountStock
	err = config.DB.Preload("Stock").
		Where("account_id = ?", account.ID).
		Find(&holdings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holdings"})
		return cache.Summary{}, false
	}

	summary := cache.Summary{
		Currencies: make([]cache.CurrencyLine, 0, len(balances)),
		Stocks:     make([]cache.StockLine, 0, len(holdings)),
	}

	for _, balance := range balances {
		summary.Currencies = append(summary.Currencies, cache.CurrencyLine{
			Amount: balance.Amount,
			Sign:   balance.Currency.Sign,
		})
	}

	for _, holding := range holdings {
		summary.Stocks = append(summary.Stocks, cache.StockLine{
			Ticker: holding.Stock.Ticker,
			Amount: holding.Amount,
			Avg:    holding.AverageBuyCost,
		})
	}

	return summary, true
}
