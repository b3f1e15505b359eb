package controllers

import (
	"fmt"
	"net/http"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/search"
)

// SearchController serves the search page
type SearchController struct {
	Engine *search.Engine
}

func NewSearchController(engine *search.Engine) *SearchController {
	return &SearchController{Engine: engine}
}

type searchResponse struct {
	Query    models.SearchQuery `json:"query"`
	Count    int                `json:"count"`
	Label    string             `json:"label"`
	Products []models.Product   `json:"products"`
}

// Search reads q, category and sort from the query string
func (sc *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := models.SearchQuery{
		Text:     params.Get("q"),
		Category: params.Get("category"),
		Sort:     params.Get("sort"),
	}
	products := sc.Engine.Search(query)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:    query,
		Count:    len(products),
		Label:    resultsLabel(len(products), query.Text),
		Products: products,
	})
}

func resultsLabel(count int, text string) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}
	label := fmt.Sprintf("%d result%s found", count, plural)
	if text != "" {
		label += fmt.Sprintf(" for %q", text)
	}
	return label
}
