package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/trekweb/trek_web_backend/internal/services"
)

// WishlistHandler serves the wishlist HTTP routes.
type WishlistHandler struct {
	Service *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{Service: service}
}

// AddToWishlistHandler handles POST /wishlist
func (h *WishlistHandler) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req services.AddWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Failed to decode add to wishlist request")
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request payload"})
		return
	}
	defer r.Body.Close()

	entry, created, err := h.Service.AddItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, "add", err)
		return
	}

	if !created {
		writeSuccess(w, http.StatusOK, "Item already in wishlist", entry)
		return
	}
	writeSuccess(w, http.StatusCreated, "Item added to wishlist successfully", entry)
}

// RemoveFromWishlistHandler handles DELETE /wishlist/{itemId}. The owner comes
// from the JSON body, or from the ownerId query parameter when no body is sent.
func (h *WishlistHandler) RemoveFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	itemID := pathVar(r, "itemId")

	var body struct {
		OwnerID string `json:"ownerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		logrus.WithError(err).Warn("Failed to decode remove from wishlist request")
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request payload"})
		return
	}
	defer r.Body.Close()

	ownerID := body.OwnerID
	if ownerID == "" {
		ownerID = r.URL.Query().Get("ownerId")
	}

	deleted, err := h.Service.RemoveItem(r.Context(), ownerID, itemID)
	if err != nil {
		writeServiceError(w, "remove", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Item removed from wishlist successfully", deleted)
}

// GetUserWishlistHandler handles GET /wishlist/user/{ownerId}
func (h *WishlistHandler) GetUserWishlistHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := pathVar(r, "ownerId")

	entries, err := h.Service.ListItems(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, "list", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Wishlist retrieved successfully", entries)
}

// CheckWishlistItemHandler handles GET /wishlist/check/{ownerId}/{packageId}
func (h *WishlistHandler) CheckWishlistItemHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.CheckItem(r.Context(), pathVar(r, "ownerId"), pathVar(r, "packageId"))
	if err != nil {
		writeServiceError(w, "check", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Wishlist check completed", result)
}

// ClearWishlistHandler handles DELETE /wishlist/clear/{ownerId}
func (h *WishlistHandler) ClearWishlistHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := pathVar(r, "ownerId")

	result, err := h.Service.ClearItems(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, "clear", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Wishlist cleared successfully", result)
}

// RegisterRoutes mounts the wishlist routes on router. The fixed-prefix routes
// are registered before the catch-all item route. Paths are matched encoded
// so an item title may contain an escaped slash.
func (h *WishlistHandler) RegisterRoutes(router *mux.Router) {
	router.UseEncodedPath()
	router.HandleFunc("/wishlist", h.AddToWishlistHandler).Methods(http.MethodPost)
	router.HandleFunc("/wishlist/user/{ownerId}", h.GetUserWishlistHandler).Methods(http.MethodGet)
	router.HandleFunc("/wishlist/check/{ownerId}/{packageId}", h.CheckWishlistItemHandler).Methods(http.MethodGet)
	router.HandleFunc("/wishlist/clear/{ownerId}", h.ClearWishlistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/wishlist/{itemId}", h.RemoveFromWishlistHandler).Methods(http.MethodDelete)
}

// pathVar returns the decoded value of a route variable.
func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return value
}
