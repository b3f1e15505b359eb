package controllers

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/checkout"
	"github.com/chibuezemicahe/wdd330-sleepoutside/order"
)

// OrderController handles checkout and order history requests
type OrderController struct {
	Processor *order.Processor
	Validator *checkout.Validator
	History   *order.History
}

// NewOrderController creates a new OrderController
func NewOrderController(processor *order.Processor, validator *checkout.Validator, history *order.History) *OrderController {
	return &OrderController{
		Processor: processor,
		Validator: validator,
		History:   history,
	}
}

// ValidateField checks a single field as the shopper leaves it
func (oc *OrderController) ValidateField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, oc.Validator.ValidateField(req.Field, req.Value))
}

// GetQuote prices the current cart: subtotal, shipping, tax and total
func (oc *OrderController) GetQuote(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	totals, err := oc.Processor.Quote(r.Context(), sess)
	if err != nil {
		zap.S().Errorw("Error pricing cart", "session", sess.ID, "error", err)
		http.Error(w, "Error reading cart", http.StatusInternalServerError)
		return
	}
	shipping := "$" + totals.Shipping.StringFixed(2)
	if totals.Shipping.IsZero() {
		shipping = "FREE"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subtotal": "$" + totals.Subtotal.StringFixed(2),
		"shipping": shipping,
		"tax":      "$" + totals.Tax.StringFixed(2),
		"total":    "$" + totals.Total.StringFixed(2),
	})
}

// PlaceOrder validates the checkout form and submits the order
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}

	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := oc.Processor.Submit(r.Context(), sess, form)
	if err != nil {
		var verr *order.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"message": verr.Message,
				"errors":  verr.Results,
			})
		case err == order.ErrEmptyCart:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case err == order.ErrInProgress:
			http.Error(w, "Processing Order...", http.StatusConflict)
		case errors.Cause(err) == order.ErrSubmissionFailed:
			http.Error(w, order.MsgSubmissionFailed, http.StatusBadGateway)
		case err == context.Canceled || err == context.DeadlineExceeded:
			// the shopper left; nothing to render
		default:
			zap.S().Errorw("Error processing order", "session", sess.ID, "error", err)
			http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Order placed successfully!",
		"order":        receipt.Order,
		"confirmation": receipt.Confirmation,
	})
}

// GetOrders lists the session's order history
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	orders, err := oc.History.List(r.Context(), sess)
	if err != nil {
		zap.S().Errorw("Error reading orders", "session", sess.ID, "error", err)
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
