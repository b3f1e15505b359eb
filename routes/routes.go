package routes

import (
	"github.com/gorilla/mux"

	"github.com/chibuezemicahe/wdd330-sleepoutside/controllers"
	"github.com/chibuezemicahe/wdd330-sleepoutside/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, sessionController *controllers.SessionController, productController *controllers.ProductController, searchController *controllers.SearchController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	// Public routes
	router.HandleFunc("/session", sessionController.NewSession).Methods("POST")
	router.HandleFunc("/products/{category}", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{category}/{id}", productController.GetProductByID).Methods("GET")
	router.HandleFunc("/search", searchController.Search).Methods("GET")
	router.HandleFunc("/checkout/validate", orderController.ValidateField).Methods("POST")

	// Session routes
	shopper := router.NewRoute().Subrouter()
	shopper.Use(middleware.SessionMiddleware)

	// Cart Routes
	shopper.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	shopper.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	shopper.HandleFunc("/cart/{index:[0-9]+}", cartController.UpdateQuantity).Methods("PUT")
	shopper.HandleFunc("/cart/{index:[0-9]+}", cartController.RemoveFromCart).Methods("DELETE")

	// Checkout and Order Routes
	shopper.HandleFunc("/checkout/quote", orderController.GetQuote).Methods("GET")
	shopper.HandleFunc("/checkout", orderController.PlaceOrder).Methods("POST")
	shopper.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
}
