// internal/handlers/checkout/checkout_handler.go
package checkout

import (
	"net/http"

	"offers-service/internal/domain/cart"
	"offers-service/internal/middleware"
	"offers-service/internal/pkg/response"
	service "offers-service/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Quote evaluates a cart against the business's active offers without
// recording anything
func (h *CheckoutHandler) Quote(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	var req cart.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.checkoutService.Quote(c.Request.Context(), businessID, &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to evaluate cart", err)
		return
	}

	response.Success(c, http.StatusOK, "cart evaluated", result)
}

// Commit evaluates a cart and records redemptions for the applied offers
func (h *CheckoutHandler) Commit(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	var req cart.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.checkoutService.Commit(c.Request.Context(), businessID, &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to commit checkout", err)
		return
	}

	response.Success(c, http.StatusOK, "checkout committed", result)
}
