package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/cart"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/search"
)

// CartController handles cart-related requests
type CartController struct {
	Store  *cart.Store
	Engine *search.Engine
}

// NewCartController creates a new CartController
func NewCartController(store *cart.Store, engine *search.Engine) *CartController {
	return &CartController{Store: store, Engine: engine}
}

type cartResponse struct {
	Items   []models.CartLineItem `json:"items"`
	Summary models.CartSummary    `json:"summary"`
}

// GetCart returns the line items and their summary
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	items, err := cc.Store.Get(r.Context(), sess)
	if err != nil {
		zap.S().Errorw("Error reading cart", "session", sess.ID, "error", err)
		http.Error(w, "Error reading cart", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: items, Summary: models.Summarize(items)})
}

// AddToCart adds a product, identified by id and category, to the cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Category  string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	product, err := cc.Engine.AddToCart(r.Context(), sess, req.ProductID, req.Category)
	switch errors.Cause(err) {
	case nil:
	case search.ErrUnknownCategory, search.ErrProductNotFound:
		http.Error(w, "Failed to add item to cart. Please try again.", http.StatusNotFound)
		return
	default:
		zap.S().Errorw("Error adding to cart", "session", sess.ID, "error", err)
		http.Error(w, "Failed to add item to cart. Please try again.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": product.DisplayName() + " added to cart!",
	})
}

// UpdateQuantity sets the quantity of one line; zero removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := cc.Store.SetQuantity(r.Context(), sess, index, req.Quantity); err != nil {
		zap.S().Errorw("Error updating cart", "session", sess.ID, "error", err)
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	cc.GetCart(w, r)
}

// RemoveFromCart removes the line at the given position
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}
	if err := cc.Store.RemoveAt(r.Context(), sess, index); err != nil {
		zap.S().Errorw("Error updating cart", "session", sess.ID, "error", err)
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	cc.GetCart(w, r)
}
