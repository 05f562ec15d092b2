package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw body.
const signatureHeader = "X-Signature"

// webhookHandler receives callbacks from the e-signature provider.
type webhookHandler struct {
	signatureService portssvc.SignatureCompletionSvc
	secret           []byte
}

func newWebhookHandler(ss portssvc.SignatureCompletionSvc, secret string) *webhookHandler {
	return &webhookHandler{
		signatureService: ss,
		secret:           []byte(secret),
	}
}

// RegisterWebhookRoutes registers the unauthenticated provider callbacks.
func RegisterWebhookRoutes(r gin.IRouter, signatureService portssvc.SignatureCompletionSvc, secret string) {
	h := newWebhookHandler(signatureService, secret)

	r.POST("/webhooks/signature", h.signatureCompleted)
}

// signatureCompleted godoc
// @Summary E-signature completion callback
// @Description Advances the employee's pending_signature request. Repeated deliveries are acknowledged with applied=false.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   X-Signature header string true "Hex HMAC-SHA256 of the body"
// @Param   event body dto.SignatureWebhookRequest true "Signature event"
// @Success 200 {object} dto.SignatureWebhookResponse
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Bad or missing signature"
// @Failure 500 {object} map[string]string "Failed to apply signature"
// @Router /webhooks/signature [post]
func (h *webhookHandler) signatureCompleted(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !h.verify(body, c.GetHeader(signatureHeader)) {
		logger.Warn("Rejected signature webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event dto.SignatureWebhookRequest
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("Failed to decode signature webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := binding.Validator.ValidateStruct(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("user_id", event.UserID), slog.String("signature_id", event.SignatureID))

	updated, err := h.signatureService.ApplySignatureCompletion(c.Request.Context(), event.UserID, event.SignatureID, event.RequestID)
	if err != nil {
		respondWithError(c, err, "Failed to apply signature")
		return
	}
	if updated == nil {
		logger.Info("Signature webhook had nothing to apply")
		c.JSON(http.StatusOK, dto.SignatureWebhookResponse{Applied: false})
		return
	}

	logger.Info("Signature applied", slog.String("credit_request_id", updated.RequestID), slog.String("status", string(updated.Status)))
	c.JSON(http.StatusOK, dto.SignatureWebhookResponse{Applied: true, RequestID: &updated.RequestID})
}

// verify refuses everything while no secret is configured.
func (h *webhookHandler) verify(body []byte, provided string) bool {
	if len(h.secret) == 0 || provided == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(provided), "sha256="))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}
