package recipe

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe aggregate
type RecipeTestSuite struct {
	suite.Suite
}

func (suite *RecipeTestSuite) TestNewRecipe() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		r, err := NewRecipe("  Orange Blossom  ", sampleRecipe, 5, 42.5)

		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.Equal(suite.T(), "Orange Blossom", r.Name())
		assert.Equal(suite.T(), 5.0, r.BatchSize())
		assert.Equal(suite.T(), 42.5, r.TotalCost())
		assert.NotZero(suite.T(), r.CreatedAt())
		assert.NotEmpty(suite.T(), r.LogData().Checklist.Steps)

		events := r.Events()
		require.Len(suite.T(), events, 1)
		saved, ok := events[0].(RecipeSavedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), r.ID(), saved.RecipeID)
		assert.Equal(suite.T(), "recipe.saved", saved.EventName())
		assert.Empty(suite.T(), r.Events(), "events are cleared once read")
	})

	suite.Run("Validation", func() {
		cases := []struct {
			name      string
			recipe    string
			markdown  string
			batch     float64
			cost      float64
			expectErr error
		}{
			{"EmptyName", "", sampleRecipe, 5, 0, ErrNameRequired},
			{"LongName", string(make([]byte, 201)), sampleRecipe, 5, 0, ErrNameTooLong},
			{"EmptyMarkdown", "Mead", "  ", 5, 0, ErrMarkdownRequired},
			{"ZeroBatch", "Mead", sampleRecipe, 0, 0, ErrInvalidBatchSize},
			{"NaNBatch", "Mead", sampleRecipe, math.NaN(), 0, ErrInvalidBatchSize},
			{"NegativeCost", "Mead", sampleRecipe, 5, -1, ErrInvalidTotalCost},
			{"InfiniteCost", "Mead", sampleRecipe, 5, math.Inf(1), ErrInvalidTotalCost},
		}
		for _, tc := range cases {
			suite.Run(tc.name, func() {
				r, err := NewRecipe(tc.recipe, tc.markdown, tc.batch, tc.cost)
				assert.Nil(suite.T(), r)
				assert.ErrorIs(suite.T(), err, tc.expectErr)
			})
		}
	})

	suite.Run("MarkdownWithoutTable_IsStillSavable", func() {
		r, err := NewRecipe("Freeform", "Just honey and water, no table.", 4, 0)
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), r.Ingredients())
	})
}

func (suite *RecipeTestSuite) TestIngredientsReparseMarkdown() {
	r, err := NewRecipe("Orange Blossom", sampleRecipe, 5, 10)
	require.NoError(suite.T(), err)

	lines := r.Ingredients()
	require.Len(suite.T(), lines, 4)
	assert.Equal(suite.T(), "Orange Blossom Honey", lines[0].Name)
}

func (suite *RecipeTestSuite) TestUpdateLog() {
	r, err := NewRecipe("Orange Blossom", sampleRecipe, 5, 10)
	require.NoError(suite.T(), err)
	r.Events()

	suite.Run("ValidLog_KeepsCostFrozen", func() {
		log := r.LogData()
		log.Notes = "Vigorous ferment by day two"
		log.Readings = []GravityReading{{TakenAt: time.Now(), Gravity: 1.105}}
		require.NoError(suite.T(), r.UpdateLog(log))

		assert.Equal(suite.T(), 10.0, r.TotalCost())
		assert.Equal(suite.T(), "Vigorous ferment by day two", r.LogData().Notes)

		events := r.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "recipe.log.updated", events[0].EventName())
	})

	suite.Run("ImplausibleGravity_Rejected", func() {
		log := r.LogData()
		log.Readings = append(log.Readings, GravityReading{TakenAt: time.Now(), Gravity: 10})
		assert.ErrorIs(suite.T(), r.UpdateLog(log), ErrInvalidGravity)
	})
}

func (suite *RecipeTestSuite) TestReconstitute() {
	id := uuid.New()
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	r := Reconstitute(id, "Stored", sampleRecipe, created, created, 19, 88.2, NewLogData())

	assert.Equal(suite.T(), id, r.ID())
	assert.Equal(suite.T(), created, r.CreatedAt())
	assert.Equal(suite.T(), 88.2, r.TotalCost())
	assert.Empty(suite.T(), r.Events())
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func TestLogData_Gravities(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	log := LogData{Readings: []GravityReading{
		{TakenAt: base.Add(48 * time.Hour), Gravity: 1.060},
		{TakenAt: base, Gravity: 1.110},
		{TakenAt: base.Add(96 * time.Hour), Gravity: 1.020},
	}}

	og, ok := log.OriginalGravity()
	require.True(t, ok)
	assert.Equal(t, 1.110, og)

	latest, ok := log.LatestGravity()
	require.True(t, ok)
	assert.Equal(t, 1.020, latest)

	_, ok = LogData{}.OriginalGravity()
	assert.False(t, ok)
}
