package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockIdempotencyRepo struct {
	mock.Mock
}

func (m *mockIdempotencyRepo) GetByKey(ctx context.Context, endpoint, key string) (*entity.IdempotencyKey, error) {
	args := m.Called(ctx, endpoint, key)
	ikey, _ := args.Get(0).(*entity.IdempotencyKey)
	return ikey, args.Error(1)
}

func (m *mockIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return m.Called(ctx, ikey).Error(0)
}

func (m *mockIdempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newIdempotentRouter(repo *mockIdempotencyRepo, handled *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/things", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		*handled++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router
}

func post(router *gin.Engine, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_StoresSuccessfulResponse(t *testing.T) {
	repo := new(mockIdempotencyRepo)
	handled := 0
	router := newIdempotentRouter(repo, &handled)

	repo.On("GetByKey", mock.Anything, "POST /things", "k1").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(ikey *entity.IdempotencyKey) bool {
		return ikey.Key == "k1" &&
			ikey.Endpoint == "POST /things" &&
			ikey.RequestHash == hashBody([]byte(`{"a":1}`)) &&
			ikey.ResponseCode == http.StatusCreated &&
			ikey.ResponseBody == `{"ok":true}`
	})).Return(nil).Once()

	w := post(router, `{"a":1}`, "k1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, handled)
	repo.AssertExpectations(t)
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	repo := new(mockIdempotencyRepo)
	handled := 0
	router := newIdempotentRouter(repo, &handled)

	w := post(router, `{}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, handled)
	repo.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotency_LookupFailureStillServes(t *testing.T) {
	repo := new(mockIdempotencyRepo)
	handled := 0
	router := newIdempotentRouter(repo, &handled)
	repo.On("GetByKey", mock.Anything, "POST /things", "k1").Return(nil, errors.New("db down")).Once()

	w := post(router, `{}`, "k1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, handled)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIdempotency_RejectsLongKey(t *testing.T) {
	repo := new(mockIdempotencyRepo)
	handled := 0
	router := newIdempotentRouter(repo, &handled)

	w := post(router, `{}`, strings.Repeat("k", maxIdempotencyKeyLength+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, handled)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("123456789abc"))
}
