package api

import (
	"net/http"

	"github.com/example/storefront/internal/catalog"
)

func filterFrom(r *http.Request) catalog.Filter {
	q := r.URL.Query()
	return catalog.Filter{Query: q.Get("search"), Category: q.Get("category")}
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.SearchProducts(filterFrom(r)))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, ok := h.catalog.Product(id)
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetServices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.SearchServices(filterFrom(r)))
}

func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/services/")
	service, ok := h.catalog.Service(id)
	if !ok {
		respondJSONError(w, "Service not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, service)
}

// CategoriesResponse lists the filter options for both listings.
type CategoriesResponse struct {
	Products []catalog.Category `json:"products"`
	Services []catalog.Category `json:"services"`
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CategoriesResponse{
		Products: h.catalog.ProductCategories(),
		Services: h.catalog.ServiceCategories(),
	})
}
