package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"github.com/meadcraft/meadery/pkg/money"
	"go.uber.org/zap"
)

const maxCombinedRecipeIDs = 50

// RecipeHandlers serves the recipe endpoints
type RecipeHandlers struct {
	recipes   inbound.RecipeService
	settings  inbound.SettingsService
	validator Validator
	metrics   Metrics
	locale    string
	logger    *zap.Logger
}

// NewRecipeHandlers creates the recipe handlers. metrics may be nil.
func NewRecipeHandlers(
	recipes inbound.RecipeService,
	settings inbound.SettingsService,
	validator Validator,
	metrics Metrics,
	locale string,
	logger *zap.Logger,
) *RecipeHandlers {
	return &RecipeHandlers{
		recipes:   recipes,
		settings:  settings,
		validator: validator,
		metrics:   metricsOrNoop(metrics),
		locale:    locale,
		logger:    logger.Named("recipe-handlers"),
	}
}

// Routes mounts the recipe endpoints
func (h *RecipeHandlers) Routes(r chi.Router) {
	r.Post("/generate", h.Generate)
	r.Post("/", h.Save)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/log", h.UpdateLog)
	r.Get("/{id}/shopping-list", h.ShoppingList)
	r.Get("/{id}/cost", h.Cost)
}

// Generate handles POST /api/v1/recipes/generate
func (h *RecipeHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GenerateRecipeCommand
	if err := decodeJSON(r, h.validator, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	draft, err := h.recipes.GenerateRecipe(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, draft, "Recipe generated")
}

// Save handles POST /api/v1/recipes
func (h *RecipeHandlers) Save(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.SaveRecipeCommand
	if err := decodeJSON(r, h.validator, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	saved, err := h.recipes.SaveRecipe(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/recipes/"+saved.ID.String())
	writeSuccess(w, h.logger, http.StatusCreated, saved, "Recipe saved")
}

// List handles GET /api/v1/recipes?page=&page_size=
func (h *RecipeHandlers) List(w http.ResponseWriter, r *http.Request) {
	params := inbound.PaginationParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}

	list, err := h.recipes.ListRecipes(r.Context(), params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, list, "")
}

// Get handles GET /api/v1/recipes/{id}
func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.recipes.GetRecipe(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, dto, "")
}

// Delete handles DELETE /api/v1/recipes/{id}
func (h *RecipeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, nil, "Recipe deleted")
}

// UpdateLog handles PUT /api/v1/recipes/{id}/log
func (h *RecipeHandlers) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var log recipe.LogData
	if err := decodeJSON(r, h.validator, &log); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.recipes.UpdateBrewLog(r.Context(), id, log)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, dto, "Brew log updated")
}

// ShoppingList handles GET /api/v1/recipes/{id}/shopping-list
func (h *RecipeHandlers) ShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.recipes.ShoppingList(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.ShoppingListComputed(len(list.Entries))
	writeSuccess(w, h.logger, http.StatusOK, list, "")
}

// CombinedShoppingListRequest is the body of POST /api/v1/shopping-list
type CombinedShoppingListRequest struct {
	RecipeIDs []string `json:"recipe_ids" validate:"required,min=1,max=50,dive,uuid"`
}

// CombinedShoppingList handles POST /api/v1/shopping-list
func (h *RecipeHandlers) CombinedShoppingList(w http.ResponseWriter, r *http.Request) {
	var req CombinedShoppingListRequest
	if err := decodeJSON(r, h.validator, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.RecipeIDs))
	for _, raw := range req.RecipeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, h.logger, apperrors.NewBadRequestError("Invalid recipe id").WithMetadata("id", raw))
			return
		}
		ids = append(ids, id)
	}
	if len(ids) > maxCombinedRecipeIDs {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("Too many recipes"))
		return
	}

	list, err := h.recipes.CombinedShoppingList(r.Context(), ids)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.ShoppingListComputed(len(list.Entries))
	writeSuccess(w, h.logger, http.StatusOK, list, "")
}

// RecipeCostResponse adds display strings to the cost comparison
type RecipeCostResponse struct {
	*inbound.RecipeCostDTO
	Currency             string `json:"currency"`
	FormattedSavedCost   string `json:"formatted_saved_cost"`
	FormattedCurrentCost string `json:"formatted_current_cost"`
}

// Cost handles GET /api/v1/recipes/{id}/cost
func (h *RecipeHandlers) Cost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cost, err := h.recipes.RecipeCost(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	current, err := h.settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	formatter := money.NewFormatter(current.CurrencySymbol, h.locale)

	writeSuccess(w, h.logger, http.StatusOK, RecipeCostResponse{
		RecipeCostDTO:        cost,
		Currency:             formatter.Symbol(),
		FormattedSavedCost:   formatter.Format(cost.SavedCost),
		FormattedCurrentCost: formatter.Format(cost.CurrentCost),
	}, "")
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
