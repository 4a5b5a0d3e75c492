package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"go.uber.org/zap"
)

// InventoryHandlers serves the inventory ledger endpoints
type InventoryHandlers struct {
	inventory inbound.InventoryService
	validator Validator
	metrics   Metrics
	logger    *zap.Logger
}

// NewInventoryHandlers creates the inventory handlers. metrics may be nil.
func NewInventoryHandlers(inventory inbound.InventoryService, validator Validator, metrics Metrics, logger *zap.Logger) *InventoryHandlers {
	return &InventoryHandlers{
		inventory: inventory,
		validator: validator,
		metrics:   metricsOrNoop(metrics),
		logger:    logger.Named("inventory-handlers"),
	}
}

// Routes mounts the inventory endpoints
func (h *InventoryHandlers) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/", h.Clear)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/v1/inventory
func (h *InventoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, items, "")
}

// Add handles POST /api/v1/inventory
func (h *InventoryHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.InventoryItemCommand
	if err := decodeJSON(r, h.validator, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.inventory.AddItem(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.InventoryMutation("add")
	w.Header().Set("Location", "/api/v1/inventory/"+item.ID.String())
	writeSuccess(w, h.logger, http.StatusCreated, item, "Item added")
}

// Get handles GET /api/v1/inventory/{id}
func (h *InventoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, item, "")
}

// Update handles PUT /api/v1/inventory/{id}
func (h *InventoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var cmd inbound.InventoryItemCommand
	if err := decodeJSON(r, h.validator, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.inventory.UpdateItem(r.Context(), id, cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.InventoryMutation("update")
	writeSuccess(w, h.logger, http.StatusOK, item, "Item updated")
}

// Delete handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.inventory.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.InventoryMutation("delete")
	writeSuccess(w, h.logger, http.StatusOK, nil, "Item deleted")
}

// Clear handles DELETE /api/v1/inventory
func (h *InventoryHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.inventory.ClearInventory(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.InventoryMutation("clear")
	writeSuccess(w, h.logger, http.StatusOK, map[string]int64{"removed": removed}, "Inventory cleared")
}
