package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleEvent(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zap.NewNop())

	// Act
	require.NoError(t, m.HandleEvent(recipe.RecipeSavedEvent{RecipeID: uuid.New(), Name: "Show Mead", TotalCost: 42}))
	require.NoError(t, m.HandleEvent(recipe.BrewLogUpdatedEvent{RecipeID: uuid.New(), UpdatedAt: time.Now()}))
	require.NoError(t, m.HandleEvent(recipe.RecipeDeletedEvent{RecipeID: uuid.New(), DeletedAt: time.Now()}))

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesSavedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.brewLogUpdatesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.recipeCost))
}

func TestBusinessCounters(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.InventoryMutation("add")
	m.InventoryMutation("add")
	m.InventoryMutation("clear")
	m.GeneratorRequest("static", "success", 20*time.Millisecond)
	m.CacheOperation("get", "miss")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.inventoryMutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inventoryMutations.WithLabelValues("clear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generatorRequests.WithLabelValues("static", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperationsTotal.WithLabelValues("get", "miss")))
}

func TestHTTPMiddleware_LabelsRoutePattern(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zap.NewNop())
	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/api/v1/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// Act
	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+id, nil))
	}

	// Assert
	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/recipes/{id}", "418")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	m.InventoryMutation("update")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `meadery_inventory_mutations_total{operation="update"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
