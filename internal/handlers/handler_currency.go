package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to payout currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencyPolicySvc
}

func newCurrencyHandler(cs portssvc.CurrencyPolicySvc) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// RegisterCurrencyRoutes registers routes related to currencies.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencyPolicySvc) {
	h := newCurrencyHandler(currencyService)

	rg.GET("/currencies", h.listCurrencies)
	rg.POST("/users/:userID/currency/reconcile", h.reconcileCurrency)
}

// listCurrencies godoc
// @Summary List supported currencies
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCurrencyResponses(h.currencyService.SupportedCurrencies()))
}

// reconcileCurrency godoc
// @Summary Reconcile a user's currency
// @Description Re-derives the user's canonical currency from their employment classification and stores it when it changed (admin only)
// @Tags currencies
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ReconcileCurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin only"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to reconcile currency"
// @Security BearerAuth
// @Router /users/{userID}/currency/reconcile [post]
func (h *currencyHandler) reconcileCurrency(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID := c.Param("userID")

	currency, changed, err := h.currencyService.ReconcileUser(c.Request.Context(), actor, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile currency")
		return
	}

	if changed {
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("User currency reconciled",
			slog.String("target_user_id", userID), slog.String("currency", string(currency)))
	}
	c.JSON(http.StatusOK, dto.ReconcileCurrencyResponse{
		UserID:   userID,
		Currency: string(currency),
		Changed:  changed,
	})
}
