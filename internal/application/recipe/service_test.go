package recipe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appRecipe "github.com/meadcraft/meadery/internal/application/recipe"
	"github.com/meadcraft/meadery/internal/application/settings"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	domainSettings "github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/infrastructure/persistence/memory"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"github.com/meadcraft/meadery/test/testutils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type RecipeServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	service   inbound.RecipeService
	generator *testutils.MockRecipeGenerator
	cache     *memory.CacheRepository
	inventory *memory.InventoryRepository
	events    *testutils.EventRecorder
	honey     inventory.Item
	yeast     inventory.Item
}

func (s *RecipeServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	s.honey = inventory.Item{ID: uuid.New(), Name: "Wildflower Honey", Qty: 2, Unit: "kg", Price: 24, Category: inventory.CategoryHoney}
	s.yeast = inventory.Item{ID: uuid.New(), Name: "Lalvin 71B", Qty: 2, Unit: "packet", Price: 8, Category: inventory.CategoryYeast}
	empty := inventory.Item{ID: uuid.New(), Name: "Cinnamon Stick", Qty: 0, Unit: "piece", Price: 0, Category: inventory.CategorySpice}

	s.generator = &testutils.MockRecipeGenerator{}
	s.cache = memory.NewCacheRepository()
	s.inventory = memory.NewInventoryRepository(s.honey, s.yeast, empty)
	s.events = &testutils.EventRecorder{}

	s.service = s.newService(s.cache)
}

func (s *RecipeServiceTestSuite) newService(cache outbound.CacheRepository) inbound.RecipeService {
	logger := zap.NewNop()
	settingsService := settings.NewSettingsService(
		memory.NewSettingsRepository(),
		domainSettings.Settings{CurrencySymbol: "$", DefaultBatchSizeLiters: 19},
		logger,
	)
	return appRecipe.NewRecipeService(
		memory.NewRecipeRepository(),
		s.inventory,
		cache,
		s.generator,
		s.events,
		settingsService,
		appRecipe.Config{DraftTTL: time.Hour},
		logger,
	)
}

func (s *RecipeServiceTestSuite) markdown() string {
	return testutils.NewRecipeMarkdown("Lemon Mead").
		WithLine("wildflower honey", 3000, "g").
		WithItem(s.yeast, 1).
		WithLine("Lemon", 2, "piece").
		WithNotes("Ferment cool.").
		Build()
}

func (s *RecipeServiceTestSuite) save(name string) *inbound.RecipeDTO {
	saved, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{Name: name, Markdown: s.markdown()})
	s.Require().NoError(err)
	return saved
}

func (s *RecipeServiceTestSuite) TestGenerateRecipe() {
	s.Run("DefaultBatchAndOnHand_ShouldReachGenerator", func() {
		// Arrange
		s.generator.On("Generate", mock.Anything, mock.MatchedBy(func(req outbound.GenerationRequest) bool {
			return req.BatchSizeLiters == 19 &&
				len(req.OnHand) == 2 &&
				req.Style == "Melomel"
		})).Return(s.markdown(), nil).Once()

		// Act
		draft, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Melomel"})

		// Assert
		s.Require().NoError(err)
		s.NotEmpty(draft.ID)
		s.Equal("mock", draft.Generator)
		s.Len(draft.Ingredients, 3)
		s.InDelta(40.0, draft.EstimatedCost, 0.001)
		exists, err := s.cache.Exists(s.ctx, "draft:"+draft.ID)
		s.Require().NoError(err)
		s.True(exists)
		s.generator.AssertExpectations(s.T())
	})

	s.Run("GeneratorFailure_ShouldBeExternalServiceError", func() {
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

		_, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional"})

		testutils.AssertAppError(s.T(), err, apperrors.CodeExternalServiceError)
	})

	s.Run("RateLimited_ShouldPassThrough", func() {
		s.generator.On("Generate", mock.Anything, mock.Anything).
			Return("", apperrors.NewRateLimitedError("mock", errors.New("budget exhausted"))).Once()

		_, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional"})

		testutils.AssertAppError(s.T(), err, apperrors.CodeTooManyRequests)
	})

	s.Run("EmptyResponse_ShouldBeExternalServiceError", func() {
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("  \n", nil).Once()

		_, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional"})

		testutils.AssertAppError(s.T(), err, apperrors.CodeExternalServiceError)
	})

	s.Run("NoTable_ShouldReturnEmptyIngredients", func() {
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("# Just prose\n\nNo table here.\n", nil).Once()

		draft, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional"})

		s.Require().NoError(err)
		s.NotNil(draft.Ingredients)
		s.Empty(draft.Ingredients)
		s.Zero(draft.EstimatedCost)
	})
}

func (s *RecipeServiceTestSuite) TestGenerateRecipe_CacheFailureStillReturnsDraft() {
	// Arrange
	cache := &testutils.MockCacheRepository{}
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(errors.New("redis down"))
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(s.markdown(), nil)
	service := s.newService(cache)

	// Act
	draft, err := service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional"})

	// Assert
	s.Require().NoError(err)
	s.Contains(draft.Markdown, "| Ingredient | Quantity | Unit |")
	cache.AssertExpectations(s.T())
}

func (s *RecipeServiceTestSuite) TestSaveRecipe() {
	s.Run("FromMarkdown_ShouldFreezeCostAndPublish", func() {
		saved := s.save("Lemon Mead")

		s.InDelta(40.0, saved.TotalCost, 0.001)
		s.Equal(19.0, saved.BatchSizeLiters)
		s.Len(saved.Ingredients, 3)
		s.Contains(s.events.Names(), "recipe.saved")
	})

	s.Run("FromDraft_ShouldConsumeDraft", func() {
		// Arrange
		s.generator.On("Generate", mock.Anything, mock.Anything).Return(s.markdown(), nil).Once()
		draft, err := s.service.GenerateRecipe(s.ctx, inbound.GenerateRecipeCommand{Style: "Traditional", BatchSizeLiters: 10})
		s.Require().NoError(err)

		// Act
		saved, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{DraftID: draft.ID, Name: "From Draft"})

		// Assert
		s.Require().NoError(err)
		s.Equal(10.0, saved.BatchSizeLiters)
		s.Equal(draft.Markdown, saved.Markdown)
		_, err = s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{DraftID: draft.ID, Name: "Again"})
		testutils.AssertAppError(s.T(), err, apperrors.CodeDraftNotFound)
	})

	s.Run("UnknownDraft_ShouldBeNotFound", func() {
		_, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{DraftID: uuid.NewString(), Name: "Ghost"})

		testutils.AssertAppError(s.T(), err, apperrors.CodeDraftNotFound)
	})

	s.Run("BlankName_ShouldFailValidation", func() {
		_, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{Name: "   ", Markdown: s.markdown()})

		testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
	})

	s.Run("NoTable_ShouldSaveWithZeroCost", func() {
		saved, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{Name: "Prose", Markdown: "Just honey and water."})

		s.Require().NoError(err)
		s.Zero(saved.TotalCost)
		s.Empty(saved.Ingredients)
	})

	s.Run("OverflowingQuantity_ShouldSaveWithFiniteCost", func() {
		// Arrange
		markdown := "# Huge\n\n" +
			"| Ingredient | Quantity | Unit |\n|---|---|---|\n" +
			"| Wildflower Honey | 1e308 | kg |\n" +
			"| Lalvin 71B | 1 | packet |\n\n"

		// Act
		saved, err := s.service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{Name: "Huge", Markdown: markdown})

		// Assert
		s.Require().NoError(err)
		s.InDelta(4.0, saved.TotalCost, 0.001)
		s.Len(saved.Ingredients, 2)
	})
}

func (s *RecipeServiceTestSuite) TestSaveRecipe_CacheErrorIsExternal() {
	cache := &testutils.MockCacheRepository{}
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	service := s.newService(cache)

	_, err := service.SaveRecipe(s.ctx, inbound.SaveRecipeCommand{DraftID: uuid.NewString(), Name: "Draft"})

	testutils.AssertAppError(s.T(), err, apperrors.CodeExternalServiceError)
}

func (s *RecipeServiceTestSuite) TestUpdateBrewLog() {
	s.Run("ValidLog_ShouldKeepSavedCost", func() {
		// Arrange
		saved := s.save("Logged")
		log := recipe.NewLogData()
		log.Notes = "Pitched at 18C"
		log.Readings = []recipe.GravityReading{{TakenAt: time.Now().UTC(), Gravity: 1.090}}

		// Act
		updated, err := s.service.UpdateBrewLog(s.ctx, saved.ID, log)

		// Assert
		s.Require().NoError(err)
		s.Equal("Pitched at 18C", updated.Log.Notes)
		s.Equal(saved.TotalCost, updated.TotalCost)
		s.Contains(s.events.Names(), "recipe.log.updated")
	})

	s.Run("ImplausibleGravity_ShouldFailValidation", func() {
		saved := s.save("Bad Reading")
		log := recipe.NewLogData()
		log.Readings = []recipe.GravityReading{{TakenAt: time.Now().UTC(), Gravity: 2.5}}

		_, err := s.service.UpdateBrewLog(s.ctx, saved.ID, log)

		testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
	})

	s.Run("UnknownRecipe_ShouldBeNotFound", func() {
		_, err := s.service.UpdateBrewLog(s.ctx, uuid.New(), recipe.NewLogData())

		testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
	})
}

func (s *RecipeServiceTestSuite) TestDeleteRecipe() {
	// Arrange
	saved := s.save("Short Lived")

	// Act
	err := s.service.DeleteRecipe(s.ctx, saved.ID)

	// Assert
	s.Require().NoError(err)
	s.Contains(s.events.Names(), "recipe.deleted")
	_, err = s.service.GetRecipe(s.ctx, saved.ID)
	testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
	err = s.service.DeleteRecipe(s.ctx, saved.ID)
	testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
}

func (s *RecipeServiceTestSuite) TestListRecipes() {
	for _, name := range []string{"One", "Two", "Three"} {
		s.save(name)
	}

	tests := []struct {
		name         string
		params       inbound.PaginationParams
		wantLen      int
		wantPageSize int
		wantPages    int
	}{
		{name: "Defaults", params: inbound.PaginationParams{}, wantLen: 3, wantPageSize: 20, wantPages: 1},
		{name: "SecondPage", params: inbound.PaginationParams{Page: 2, PageSize: 2}, wantLen: 1, wantPageSize: 2, wantPages: 2},
		{name: "OversizedPage_ShouldClamp", params: inbound.PaginationParams{PageSize: 500}, wantLen: 3, wantPageSize: 100, wantPages: 1},
		{name: "PastTheEnd_ShouldBeEmpty", params: inbound.PaginationParams{Page: 5, PageSize: 2}, wantLen: 0, wantPageSize: 2, wantPages: 2},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			list, err := s.service.ListRecipes(s.ctx, tt.params)

			s.Require().NoError(err)
			s.Len(list.Recipes, tt.wantLen)
			s.Equal(3, list.Total)
			s.Equal(tt.wantPageSize, list.PageSize)
			s.Equal(tt.wantPages, list.TotalPages)
		})
	}
}

func (s *RecipeServiceTestSuite) TestShoppingList() {
	s.Run("Single_ShouldCompareAtFaceValue", func() {
		saved := s.save("Shopping")

		list, err := s.service.ShoppingList(s.ctx, saved.ID)

		s.Require().NoError(err)
		s.Require().Len(list.Entries, 2)
		s.Equal("wildflower honey", list.Entries[0].Name)
		s.InDelta(2998.0, list.Entries[0].Quantity, 0.001)
		s.Equal("Lemon", list.Entries[1].Name)
		s.Equal(2.0, list.Entries[1].Quantity)
	})

	s.Run("Combined_ShouldConcatenateInRequestOrder", func() {
		first := s.save("First")
		second := s.save("Second")

		list, err := s.service.CombinedShoppingList(s.ctx, []uuid.UUID{second.ID, first.ID, second.ID})

		s.Require().NoError(err)
		s.Require().Len(list.Entries, 6)
		s.Equal(second.ID, list.Entries[0].RecipeID)
		s.Equal(first.ID, list.Entries[2].RecipeID)
		s.Equal(second.ID, list.Entries[5].RecipeID)
	})

	s.Run("CombinedMissingRecipe_ShouldBeNotFound", func() {
		first := s.save("Present")

		_, err := s.service.CombinedShoppingList(s.ctx, []uuid.UUID{first.ID, uuid.New()})

		testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
	})

	s.Run("CombinedTooMany_ShouldFailValidation", func() {
		ids := make([]uuid.UUID, 51)
		for i := range ids {
			ids[i] = uuid.New()
		}

		_, err := s.service.CombinedShoppingList(s.ctx, ids)

		testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
	})
}

func (s *RecipeServiceTestSuite) TestRecipeCost_ShouldNotRewriteSavedCost() {
	// Arrange
	saved := s.save("Price Watch")
	s.honey.Price = 48
	s.Require().NoError(s.inventory.Update(s.ctx, s.honey))

	// Act
	cost, err := s.service.RecipeCost(s.ctx, saved.ID)

	// Assert
	s.Require().NoError(err)
	s.InDelta(40.0, cost.SavedCost, 0.001)
	s.InDelta(76.0, cost.CurrentCost, 0.001)
	s.Len(cost.Breakdown, 3)
	reloaded, err := s.service.GetRecipe(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.InDelta(40.0, reloaded.TotalCost, 0.001)
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
