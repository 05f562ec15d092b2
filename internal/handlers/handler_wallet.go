package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// walletHandler exposes read access to the wallet ledger. Writes only happen
// through credit approvals and redemptions.
type walletHandler struct {
	walletService portssvc.WalletReaderSvc
}

func newWalletHandler(ws portssvc.WalletReaderSvc) *walletHandler {
	return &walletHandler{
		walletService: ws,
	}
}

// RegisterWalletRoutes registers routes related to wallets.
func RegisterWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletReaderSvc) {
	h := newWalletHandler(walletService)

	wallet := rg.Group("/wallet")
	{
		wallet.GET("/balance", h.getBalance)
		wallet.GET("/transactions", h.listTransactions)
		wallet.GET("/transactions/:transactionID", h.getTransaction)
		wallet.POST("/verify", h.verifyBalance)
	}
}

// getBalance godoc
// @Summary Get wallet balance
// @Description Returns the balance of the newest ledger entry. Finance roles may pass userID to read another wallet.
// @Tags wallet
// @Produce  json
// @Param   userID query string false "Wallet owner (finance roles only)"
// @Success 200 {object} dto.WalletBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Cannot read another user's wallet"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /wallet/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetBalance(c.Request.Context(), actor, c.Query("userID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletBalanceResponse(wallet))
}

// listTransactions godoc
// @Summary List wallet transactions
// @Description Lists ledger entries newest first
// @Tags wallet
// @Produce  json
// @Param   userID query string false "Wallet owner (finance roles only)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListWalletTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Cannot read another user's wallet"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /wallet/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWalletTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListWalletTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	resp, err := h.walletService.ListTransactions(c.Request.Context(), actor, params.UserID, params)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a wallet transaction
// @Tags wallet
// @Produce  json
// @Param   transactionID path string true "Wallet transaction ID"
// @Success 200 {object} dto.WalletTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Cannot read another user's wallet"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /wallet/transactions/{transactionID} [get]
func (h *walletHandler) getTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.walletService.GetTransaction(c.Request.Context(), actor, c.Param("transactionID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletTransactionResponse(txn))
}

// verifyBalance godoc
// @Summary Verify wallet consistency
// @Description Recomputes the balance from the ledger and compares it with the cached wallet row. Nothing is repaired.
// @Tags wallet
// @Produce  json
// @Param   userID query string false "Wallet owner (finance roles only)"
// @Success 200 {object} dto.BalanceCheckResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Cannot read another user's wallet"
// @Failure 500 {object} map[string]string "Failed to verify balance"
// @Security BearerAuth
// @Router /wallet/verify [post]
func (h *walletHandler) verifyBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	check, err := h.walletService.VerifyBalance(c.Request.Context(), actor, c.Query("userID"))
	if err != nil {
		respondWithError(c, err, "Failed to verify balance")
		return
	}
	if !check.Consistent {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Wallet ledger inconsistent",
			slog.String("user_id", check.UserID),
			slog.String("ledger", check.LedgerBalance.String()),
			slog.String("summed", check.SummedBalance.String()),
			slog.String("cached", check.CachedBalance.String()))
	}
	c.JSON(http.StatusOK, dto.ToBalanceCheckResponse(check))
}
