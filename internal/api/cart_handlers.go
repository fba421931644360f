package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/domain/cart"
)

// AddToCartRequest names a catalog entry by type and id. The id may be
// sent as a number or a numeric string.
type AddToCartRequest struct {
	Type cart.ItemType `json:"type"`
	ID   json.Number   `json:"id"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ws.Cart())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var (
		snapshot cart.Snapshot
		err      error
	)
	switch req.Type {
	case cart.ItemTypeProduct:
		snapshot, err = ws.AddProduct(r.Context(), req.ID.String())
	case cart.ItemTypeService:
		snapshot, err = ws.AddService(r.Context(), req.ID.String())
	default:
		err = cart.ErrInvalidType
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyFrom(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		respondJSONError(w, "quantity is required", http.StatusBadRequest)
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	snapshot, err := ws.UpdateQuantity(r.Context(), key, *req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKeyFrom(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	snapshot, err := ws.RemoveFromCart(r.Context(), key)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	snapshot, err := ws.ClearCart(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// cartKeyFrom parses /cart/items/{type}/{id}.
func cartKeyFrom(w http.ResponseWriter, r *http.Request) (cart.Key, bool) {
	parts := strings.Split(extractPathParam(r.URL.Path, "/cart/items/"), "/")
	if len(parts) != 2 {
		respondJSONError(w, "expected /cart/items/{type}/{id}", http.StatusBadRequest)
		return cart.Key{}, false
	}
	itemType := cart.ItemType(parts[0])
	id, err := strconv.Atoi(parts[1])
	if !itemType.Valid() || err != nil || id <= 0 {
		respondJSONError(w, "invalid cart item", http.StatusBadRequest)
		return cart.Key{}, false
	}
	return cart.Key{ID: id, Type: itemType}, true
}
