package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/emstack/ems-api/internal/service"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type fakeCacheRepo struct {
	sets     []string
	patterns []string
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.sets = append(f.sets, key)
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func newCacheTestRouter(repo *fakeCacheRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewCacheService(repo, nil, time.Minute, nil, true)

	r := gin.New()
	r.Use(InvalidateSummaries(svc))
	r.GET("/summary", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.POST("/items", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })
	r.POST("/broken", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"ok": false}) })
	return r
}

func TestInvalidateSummariesOnMutation(t *testing.T) {
	repo := &fakeCacheRepo{}
	r := newCacheTestRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"summary:*"}, repo.patterns)
}

func TestInvalidateSummariesSkipsReads(t *testing.T) {
	repo := &fakeCacheRepo{}
	r := newCacheTestRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

	assert.Empty(t, repo.patterns)
}

func TestInvalidateSummariesSkipsFailedMutations(t *testing.T) {
	repo := &fakeCacheRepo{}
	r := newCacheTestRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/broken", nil))

	assert.Empty(t, repo.patterns)
}
