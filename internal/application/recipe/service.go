// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/costing"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	draftKeyPrefix      = "draft:"
	defaultPageSize     = 20
	maxPageSize         = 100
	maxCombinedRecipes  = 50
	combinedConcurrency = 4
)

// Config tunes the recipe service
type Config struct {
	DraftTTL time.Duration
}

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo    outbound.RecipeRepository
	inventoryRepo outbound.InventoryRepository
	cache         outbound.CacheRepository
	generator     outbound.RecipeGenerator
	events        outbound.EventPublisher
	settings      inbound.SettingsService
	config        Config
	logger        *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	inventoryRepo outbound.InventoryRepository,
	cache outbound.CacheRepository,
	generator outbound.RecipeGenerator,
	events outbound.EventPublisher,
	settings inbound.SettingsService,
	config Config,
	logger *zap.Logger,
) inbound.RecipeService {
	if config.DraftTTL <= 0 {
		config.DraftTTL = 24 * time.Hour
	}
	return &RecipeService{
		recipeRepo:    recipeRepo,
		inventoryRepo: inventoryRepo,
		cache:         cache,
		generator:     generator,
		events:        events,
		settings:      settings,
		config:        config,
		logger:        logger.Named("recipe-service"),
	}
}

// draft is the cached form of a generated, unsaved recipe
type draft struct {
	Markdown        string    `json:"markdown"`
	BatchSizeLiters float64   `json:"batch_size_liters"`
	Generator       string    `json:"generator"`
	CreatedAt       time.Time `json:"created_at"`
}

// GenerateRecipe asks the generator for a recipe and caches it as a draft
func (s *RecipeService) GenerateRecipe(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*inbound.DraftDTO, error) {
	batchSize, err := s.resolveBatchSize(ctx, cmd.BatchSizeLiters)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	onHand := make([]string, 0, len(snapshot))
	for _, item := range snapshot {
		if item.Qty > 0 {
			onHand = append(onHand, item.Name)
		}
	}

	s.logger.Info("Generating recipe",
		zap.String("style", cmd.Style),
		zap.String("generator", s.generator.Name()),
		zap.Float64("batch_size_liters", batchSize),
	)

	markdown, err := s.generator.Generate(ctx, outbound.GenerationRequest{
		Style:           cmd.Style,
		BatchSizeLiters: batchSize,
		Sweetness:       cmd.Sweetness,
		TargetABV:       cmd.TargetABV,
		Ingredients:     cmd.Ingredients,
		Notes:           cmd.Notes,
		OnHand:          onHand,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.CodeTooManyRequests) {
			return nil, err
		}
		return nil, apperrors.NewExternalServiceError(s.generator.Name(), err)
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, apperrors.NewExternalServiceError(s.generator.Name(), errors.New("empty response"))
	}

	lines := recipe.ExtractIngredients(markdown)
	if lines == nil {
		lines = []recipe.IngredientLine{}
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	payload, err := json.Marshal(draft{
		Markdown:        markdown,
		BatchSizeLiters: batchSize,
		Generator:       s.generator.Name(),
		CreatedAt:       now,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode draft")
	}

	if err := s.cache.Set(ctx, draftKeyPrefix+id, payload, s.config.DraftTTL); err != nil {
		// The markdown is still returned so the caller can save it directly.
		s.logger.Warn("Failed to cache draft", zap.String("draft_id", id), zap.Error(err))
	}

	return &inbound.DraftDTO{
		ID:            id,
		Markdown:      markdown,
		Ingredients:   lines,
		EstimatedCost: costing.TotalCost(lines, snapshot, batchSize),
		Generator:     s.generator.Name(),
		ExpiresAt:     now.Add(s.config.DraftTTL),
	}, nil
}

// SaveRecipe persists a recipe, computing its total cost exactly once
func (s *RecipeService) SaveRecipe(ctx context.Context, cmd inbound.SaveRecipeCommand) (*inbound.RecipeDTO, error) {
	markdown := cmd.Markdown
	batchSize := cmd.BatchSizeLiters

	if cmd.DraftID != "" {
		d, err := s.loadDraft(ctx, cmd.DraftID)
		if err != nil {
			return nil, err
		}
		markdown = d.Markdown
		if batchSize <= 0 {
			batchSize = d.BatchSizeLiters
		}
	}

	batchSize, err := s.resolveBatchSize(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	lines := recipe.ExtractIngredients(markdown)
	totalCost := costing.TotalCost(lines, snapshot, batchSize)

	recipeEntity, err := recipe.NewRecipe(cmd.Name, markdown, batchSize, totalCost)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, apperrors.NewDatabaseError("create recipe", err)
	}

	s.publishEvents(ctx, recipeEntity)

	if cmd.DraftID != "" {
		if err := s.cache.Delete(ctx, draftKeyPrefix+cmd.DraftID); err != nil {
			s.logger.Warn("Failed to drop saved draft", zap.String("draft_id", cmd.DraftID), zap.Error(err))
		}
	}

	s.logger.Info("Recipe saved",
		zap.String("recipe_id", recipeEntity.ID().String()),
		zap.String("name", recipeEntity.Name()),
		zap.Int("ingredients", len(lines)),
		zap.Float64("total_cost", totalCost),
	)

	return toDTO(recipeEntity), nil
}

// DeleteRecipe removes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	recipeEntity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return apperrors.NewRecipeNotFoundError(recipeID.String())
		}
		return apperrors.NewDatabaseError("delete recipe", err)
	}

	recipeEntity.MarkDeleted()
	s.publishEvents(ctx, recipeEntity)

	s.logger.Info("Recipe deleted", zap.String("recipe_id", recipeID.String()))
	return nil
}

// UpdateBrewLog replaces the brew log of a recipe. The saved cost is kept.
func (s *RecipeService) UpdateBrewLog(ctx context.Context, recipeID uuid.UUID, log recipe.LogData) (*inbound.RecipeDTO, error) {
	recipeEntity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := recipeEntity.UpdateLog(log); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.recipeRepo.Update(ctx, recipeEntity); err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, apperrors.NewDatabaseError("update brew log", err)
	}

	s.publishEvents(ctx, recipeEntity)

	return toDTO(recipeEntity), nil
}

// GetRecipe returns a single recipe
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	recipeEntity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return toDTO(recipeEntity), nil
}

// ListRecipes returns saved recipes newest first
func (s *RecipeService) ListRecipes(ctx context.Context, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	recipes, total, err := s.recipeRepo.List(ctx, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}

	summaries := make([]inbound.RecipeSummaryDTO, len(recipes))
	for i, r := range recipes {
		summaries[i] = inbound.RecipeSummaryDTO{
			ID:              r.ID(),
			Name:            r.Name(),
			BatchSizeLiters: r.BatchSize(),
			TotalCost:       r.TotalCost(),
			CreatedAt:       r.CreatedAt().Format(time.RFC3339),
		}
	}

	return &inbound.RecipeList{
		Recipes:    summaries,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(params.PageSize))),
	}, nil
}

// ShoppingList reconciles a saved recipe against the current inventory
func (s *RecipeService) ShoppingList(ctx context.Context, recipeID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	recipeEntity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &inbound.ShoppingListDTO{
		RecipeID:   recipeEntity.ID(),
		RecipeName: recipeEntity.Name(),
		Entries:    costing.ShoppingList(recipeEntity.Ingredients(), snapshot),
	}, nil
}

// CombinedShoppingList concatenates the shopping lists of several recipes.
// Entries keep the order of recipeIDs and then table order; nothing is merged.
func (s *RecipeService) CombinedShoppingList(ctx context.Context, recipeIDs []uuid.UUID) (*inbound.CombinedShoppingListDTO, error) {
	if len(recipeIDs) > maxCombinedRecipes {
		return nil, apperrors.NewValidationError("too many recipes requested")
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	perRecipe := make([][]inbound.CombinedShoppingListEntry, len(recipeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(combinedConcurrency)
	for i, id := range recipeIDs {
		g.Go(func() error {
			recipeEntity, err := s.findRecipe(gctx, id)
			if err != nil {
				return err
			}
			entries := costing.ShoppingList(recipeEntity.Ingredients(), snapshot)
			out := make([]inbound.CombinedShoppingListEntry, len(entries))
			for j, entry := range entries {
				out[j] = inbound.CombinedShoppingListEntry{
					ShoppingListEntry: entry,
					RecipeID:          recipeEntity.ID(),
					RecipeName:        recipeEntity.Name(),
				}
			}
			perRecipe[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make([]inbound.CombinedShoppingListEntry, 0)
	for _, entries := range perRecipe {
		combined = append(combined, entries...)
	}

	return &inbound.CombinedShoppingListDTO{Entries: combined}, nil
}

// RecipeCost reports the saved cost next to what the recipe would cost today.
// The current cost is never written back.
func (s *RecipeService) RecipeCost(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeCostDTO, error) {
	recipeEntity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	lines := recipeEntity.Ingredients()

	return &inbound.RecipeCostDTO{
		RecipeID:    recipeEntity.ID(),
		SavedCost:   recipeEntity.TotalCost(),
		CurrentCost: costing.TotalCost(lines, snapshot, recipeEntity.BatchSize()),
		Breakdown:   costing.Breakdown(lines, snapshot),
	}, nil
}

func (s *RecipeService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*recipe.Recipe, error) {
	recipeEntity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return recipeEntity, nil
}

func (s *RecipeService) snapshot(ctx context.Context) (inventory.Snapshot, error) {
	snapshot, err := s.inventoryRepo.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load inventory snapshot", err)
	}
	return snapshot, nil
}

func (s *RecipeService) loadDraft(ctx context.Context, draftID string) (*draft, error) {
	payload, err := s.cache.Get(ctx, draftKeyPrefix+draftID)
	if err != nil {
		if errors.Is(err, outbound.ErrCacheMiss) {
			return nil, apperrors.NewDraftNotFoundError(draftID)
		}
		return nil, apperrors.NewExternalServiceError("draft cache", err)
	}

	var d draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode draft")
	}
	return &d, nil
}

// resolveBatchSize falls back to the configured default batch size
func (s *RecipeService) resolveBatchSize(ctx context.Context, requested float64) (float64, error) {
	if requested > 0 {
		return requested, nil
	}
	current, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return current.DefaultBatchSizeLiters, nil
}

// publishEvents dispatches pending domain events. Failures are logged only.
func (s *RecipeService) publishEvents(ctx context.Context, recipeEntity *recipe.Recipe) {
	events := recipeEntity.Events()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events",
			zap.String("recipe_id", recipeEntity.ID().String()),
			zap.Error(err),
		)
	}
}

func toDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	lines := r.Ingredients()
	if lines == nil {
		lines = []recipe.IngredientLine{}
	}
	return &inbound.RecipeDTO{
		ID:              r.ID(),
		Name:            r.Name(),
		Markdown:        r.Markdown(),
		BatchSizeLiters: r.BatchSize(),
		TotalCost:       r.TotalCost(),
		Ingredients:     lines,
		Log:             r.LogData(),
		CreatedAt:       r.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt().Format(time.RFC3339),
	}
}
