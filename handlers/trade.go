package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"paper-trader/cache"
	"paper-trader/config"
	"paper-trader/middleware"
	"paper-trader/trading"
)

// BuyStock handles POST /stocks/:id/buy. The submitted action must agree
// with the route.
func BuyStock(c *gin.Context) {
	applyTrade(c, trading.ActionBuy)
}

// SellStock handles POST /stocks/:id/sell.
func SellStock(c *gin.Context) {
	applyTrade(c, trading.ActionSell)
}

// TradeStock handles POST /stocks/:id/trade, dispatching on the order's
// declared action.
func TradeStock(c *gin.Context) {
	applyTrade(c, "")
}

// RedirectToDetail sends non-POST requests on the trade routes back to
// the stock detail page.
func RedirectToDetail(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/stocks/"+c.Param("id"))
}

// applyTrade binds the order form, validates it against the route's
// expected action when one is fixed, and executes it. An applied trade
// evicts the cached account summary and redirects to it; a rejected one
// re-presents the form with the attached message.
func applyTrade(c *gin.Context, requiredAction string) {
	stock, ok := stockByID(c)
	if !ok {
		return
	}

	account, ok := accountOf(c)
	if !ok {
		return
	}

	var order trading.Order
	if err := c.ShouldBind(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if requiredAction != "" && order.Action != requiredAction {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": trading.ErrInvalidAction.Error(),
			"form":  order,
		})
		return
	}

	result, err := trading.Execute(config.DB, account, stock, order)
	if err != nil {
		slog.Error(
			"trade failed",
			slog.String("rqID", middleware.GetRequestID(c)),
			slog.String("ticker", stock.Ticker),
			slog.String("err", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute trade"})
		return
	}

	if result.Status == trading.StatusRejected {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": result.Err.Error(),
			"form":  order,
		})
		return
	}

	if err := cache.InvalidateSummary(c.Request.Context(), account.UserID); err != nil {
		slog.Error(
			"summary cache invalidation failed",
			slog.String("rqID", middleware.GetRequestID(c)),
			slog.String("err", err.Error()),
		)
	}

	c.Redirect(http.StatusSeeOther, "/account")
}
