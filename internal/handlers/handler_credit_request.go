package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// creditRequestHandler handles HTTP requests related to credit requests.
type creditRequestHandler struct {
	creditService portssvc.CreditRequestSvcFacade
}

// newCreditRequestHandler creates a new creditRequestHandler.
func newCreditRequestHandler(cs portssvc.CreditRequestSvcFacade) *creditRequestHandler {
	return &creditRequestHandler{
		creditService: cs,
	}
}

// RegisterCreditRequestRoutes registers routes related to credit requests.
func RegisterCreditRequestRoutes(rg *gin.RouterGroup, creditService portssvc.CreditRequestSvcFacade) {
	registerValidators()
	h := newCreditRequestHandler(creditService)

	requests := rg.Group("/credit-requests")
	{
		requests.POST("", h.createCreditRequest)
		requests.GET("", h.listCreditRequests)
		requests.GET("/:requestID", h.getCreditRequest)
		requests.POST("/:requestID/sign", h.signCreditRequest)
		requests.POST("/:requestID/approve", h.approveCreditRequest)
		requests.POST("/:requestID/reject", h.rejectCreditRequest)
	}
}

// createCreditRequest godoc
// @Summary Create a credit request
// @Description Files an incentive credit request on behalf of an employee. The currency is derived from the employee's classification.
// @Tags credit-requests
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateCreditRequestRequest true "Credit request details"
// @Success 201 {object} dto.CreditRequestResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not allowed to initiate for this employee"
// @Failure 404 {object} map[string]string "Employee not found"
// @Failure 500 {object} map[string]string "Failed to create credit request"
// @Security BearerAuth
// @Router /credit-requests [post]
func (h *creditRequestHandler) createCreditRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCreditRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create credit request", slog.String("target_user_id", req.UserID), slog.String("type", req.Type))

	created, err := h.creditService.CreateCreditRequest(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create credit request")
		return
	}

	logger.Info("Credit request created", slog.String("credit_request_id", created.RequestID), slog.String("status", string(created.Status)))
	c.JSON(http.StatusCreated, dto.ToCreditRequestResponse(created))
}

// listCreditRequests godoc
// @Summary List credit requests
// @Description Lists the credit requests visible to the caller, newest first
// @Tags credit-requests
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListCreditRequestsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list credit requests"
// @Security BearerAuth
// @Router /credit-requests [get]
func (h *creditRequestHandler) listCreditRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCreditRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListCreditRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	resp, err := h.creditService.ListCreditRequests(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list credit requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCreditRequest godoc
// @Summary Get a credit request
// @Description Retrieves a credit request together with its timeline
// @Tags credit-requests
// @Produce  json
// @Param   requestID path string true "Credit request ID"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not visible to the caller"
// @Failure 404 {object} map[string]string "Credit request not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit request"
// @Security BearerAuth
// @Router /credit-requests/{requestID} [get]
func (h *creditRequestHandler) getCreditRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	req, err := h.creditService.GetCreditRequest(c.Request.Context(), actor, c.Param("requestID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve credit request")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(req))
}

// signCreditRequest godoc
// @Summary Sign a credit request
// @Description Records the employee's e-signature on a request awaiting signature
// @Tags credit-requests
// @Accept  json
// @Produce  json
// @Param   requestID path string true "Credit request ID"
// @Param   signature body dto.SignCreditRequestRequest true "Signature reference"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Only the owning employee may sign"
// @Failure 404 {object} map[string]string "Credit request not found"
// @Failure 409 {object} map[string]string "Request is not awaiting signature"
// @Failure 500 {object} map[string]string "Failed to sign credit request"
// @Security BearerAuth
// @Router /credit-requests/{requestID}/sign [post]
func (h *creditRequestHandler) signCreditRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var body dto.SignCreditRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for SignCreditRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.runTransition(c, func(actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
		return h.creditService.SignCreditRequest(c.Request.Context(), actor, requestID, body.SignatureID)
	}, "Failed to sign credit request")
}

// approveCreditRequest godoc
// @Summary Approve a credit request
// @Description HOD approval while pending_approval, employee confirmation while pending_employee_approval. The final approval credits the wallet.
// @Tags credit-requests
// @Produce  json
// @Param   requestID path string true "Credit request ID"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not approve at this stage"
// @Failure 404 {object} map[string]string "Credit request not found"
// @Failure 409 {object} map[string]string "Request is no longer in an approvable state"
// @Failure 500 {object} map[string]string "Failed to approve credit request"
// @Security BearerAuth
// @Router /credit-requests/{requestID}/approve [post]
func (h *creditRequestHandler) approveCreditRequest(c *gin.Context) {
	h.runTransition(c, func(actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
		return h.creditService.Approve(c.Request.Context(), actor, requestID)
	}, "Failed to approve credit request")
}

// rejectCreditRequest godoc
// @Summary Reject a credit request
// @Description Rejects a request at the caller's stage with a reason
// @Tags credit-requests
// @Accept  json
// @Produce  json
// @Param   requestID path string true "Credit request ID"
// @Param   rejection body dto.RejectCreditRequestRequest true "Rejection reason"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 400 {object} map[string]string "Reason missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not reject at this stage"
// @Failure 404 {object} map[string]string "Credit request not found"
// @Failure 409 {object} map[string]string "Request is no longer in a rejectable state"
// @Failure 500 {object} map[string]string "Failed to reject credit request"
// @Security BearerAuth
// @Router /credit-requests/{requestID}/reject [post]
func (h *creditRequestHandler) rejectCreditRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var body dto.RejectCreditRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for RejectCreditRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.runTransition(c, func(actor domain.Actor, requestID string) (*domain.CreditRequest, error) {
		return h.creditService.Reject(c.Request.Context(), actor, requestID, body.Reason)
	}, "Failed to reject credit request")
}

func (h *creditRequestHandler) runTransition(c *gin.Context, call func(domain.Actor, string) (*domain.CreditRequest, error), fallback string) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID := c.Param("requestID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("credit_request_id", requestID))

	updated, err := call(actor, requestID)
	if err != nil {
		respondWithError(c, err, fallback)
		return
	}

	logger.Info("Credit request transitioned", slog.String("status", string(updated.Status)))
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(updated))
}
