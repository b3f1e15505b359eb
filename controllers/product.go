package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chibuezemicahe/wdd330-sleepoutside/search"
)

// ProductController serves category listings and product details
type ProductController struct {
	Engine *search.Engine
}

func NewProductController(engine *search.Engine) *ProductController {
	return &ProductController{Engine: engine}
}

// GetProducts lists one category. An unavailable source yields an empty list.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	c, ok := pc.Engine.Catalog(mux.Vars(r)["category"])
	if !ok {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c.FetchAll(r.Context()))
}

// GetProductByID retrieves a single product of a category
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	c, ok := pc.Engine.Catalog(params["category"])
	if !ok {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	product, ok := c.FindByID(r.Context(), params["id"])
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
