package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// redemptionHandler handles HTTP requests related to redemptions.
type redemptionHandler struct {
	redemptionService portssvc.RedemptionSvcFacade
}

func newRedemptionHandler(rs portssvc.RedemptionSvcFacade) *redemptionHandler {
	return &redemptionHandler{
		redemptionService: rs,
	}
}

// RegisterRedemptionRoutes registers routes related to redemptions.
func RegisterRedemptionRoutes(rg *gin.RouterGroup, redemptionService portssvc.RedemptionSvcFacade) {
	registerValidators()
	h := newRedemptionHandler(redemptionService)

	redemptions := rg.Group("/redemptions")
	{
		redemptions.POST("", h.requestRedemption)
		redemptions.GET("", h.listRedemptions)
		redemptions.GET("/:redemptionID", h.getRedemption)
		redemptions.POST("/:redemptionID/processing", h.markProcessing)
		redemptions.POST("/:redemptionID/process", h.processRedemption)
		redemptions.POST("/:redemptionID/reject", h.rejectRedemption)
	}
}

// requestRedemption godoc
// @Summary Request a redemption
// @Description Redeems one unredeemed wallet credit. The wallet is debited immediately.
// @Tags redemptions
// @Accept  json
// @Produce  json
// @Param   redemption body dto.CreateRedemptionRequest true "Redemption details"
// @Success 201 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Invalid input, amount or currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Credit belongs to another user"
// @Failure 404 {object} map[string]string "Credit transaction not found"
// @Failure 409 {object} map[string]string "Already redeemed or insufficient balance"
// @Failure 500 {object} map[string]string "Failed to request redemption"
// @Security BearerAuth
// @Router /redemptions [post]
func (h *redemptionHandler) requestRedemption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestRedemption", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received redemption request", slog.String("credit_transaction_id", req.CreditTransactionID))

	r, err := h.redemptionService.RequestRedemption(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to request redemption")
		return
	}

	logger.Info("Redemption requested", slog.String("redemption_id", r.RedemptionID), slog.String("amount", r.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToRedemptionResponse(r))
}

// listRedemptions godoc
// @Summary List redemptions
// @Description Finance roles see the whole queue and may filter by userID. Everyone else sees their own.
// @Tags redemptions
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   userID query string false "Filter by owner"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListRedemptionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Cannot list another user's redemptions"
// @Failure 500 {object} map[string]string "Failed to list redemptions"
// @Security BearerAuth
// @Router /redemptions [get]
func (h *redemptionHandler) listRedemptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListRedemptionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListRedemptions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	resp, err := h.redemptionService.ListRedemptionQueue(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list redemptions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRedemption godoc
// @Summary Get a redemption
// @Tags redemptions
// @Produce  json
// @Param   redemptionID path string true "Redemption ID"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not visible to the caller"
// @Failure 404 {object} map[string]string "Redemption not found"
// @Failure 500 {object} map[string]string "Failed to retrieve redemption"
// @Security BearerAuth
// @Router /redemptions/{redemptionID} [get]
func (h *redemptionHandler) getRedemption(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	r, err := h.redemptionService.GetRedemption(c.Request.Context(), actor, c.Param("redemptionID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve redemption")
		return
	}
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(r))
}

// markProcessing godoc
// @Summary Mark a redemption as processing
// @Tags redemptions
// @Produce  json
// @Param   redemptionID path string true "Redemption ID"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Payout roles only"
// @Failure 404 {object} map[string]string "Redemption not found"
// @Failure 409 {object} map[string]string "Redemption is not pending"
// @Failure 500 {object} map[string]string "Failed to update redemption"
// @Security BearerAuth
// @Router /redemptions/{redemptionID}/processing [post]
func (h *redemptionHandler) markProcessing(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	r, err := h.redemptionService.MarkProcessing(c.Request.Context(), actor, c.Param("redemptionID"))
	if err != nil {
		respondWithError(c, err, "Failed to update redemption")
		return
	}
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(r))
}

// processRedemption godoc
// @Summary Complete a redemption
// @Description Records the payment. The payment currency must match the employee's canonical currency.
// @Tags redemptions
// @Accept  json
// @Produce  json
// @Param   redemptionID path string true "Redemption ID"
// @Param   payment body dto.ProcessRedemptionRequest true "Payment details"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Invalid input or currency mismatch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Payout roles only"
// @Failure 404 {object} map[string]string "Redemption not found"
// @Failure 409 {object} map[string]string "Redemption already finished"
// @Failure 500 {object} map[string]string "Failed to process redemption"
// @Security BearerAuth
// @Router /redemptions/{redemptionID}/process [post]
func (h *redemptionHandler) processRedemption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessRedemption", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	r, err := h.redemptionService.ProcessRedemption(c.Request.Context(), actor, c.Param("redemptionID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to process redemption")
		return
	}

	logger.Info("Redemption completed", slog.String("redemption_id", r.RedemptionID))
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(r))
}

// rejectRedemption godoc
// @Summary Reject a redemption
// @Description Refuses the payout and credits the debited amount back to the wallet
// @Tags redemptions
// @Accept  json
// @Produce  json
// @Param   redemptionID path string true "Redemption ID"
// @Param   rejection body dto.RejectRedemptionRequest true "Rejection reason"
// @Success 200 {object} dto.RedemptionResponse
// @Failure 400 {object} map[string]string "Reason missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Payout roles only"
// @Failure 404 {object} map[string]string "Redemption not found"
// @Failure 409 {object} map[string]string "Redemption already finished"
// @Failure 500 {object} map[string]string "Failed to reject redemption"
// @Security BearerAuth
// @Router /redemptions/{redemptionID}/reject [post]
func (h *redemptionHandler) rejectRedemption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectRedemption", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	r, err := h.redemptionService.RejectRedemption(c.Request.Context(), actor, c.Param("redemptionID"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to reject redemption")
		return
	}
	c.JSON(http.StatusOK, dto.ToRedemptionResponse(r))
}
