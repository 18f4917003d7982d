package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	analyticsService "github.com/dumeirei/hotel-revenue-backend/internal/service/analytics"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	repo := repository.NewRevenueRepository(db)
	for i, ch := range []string{"携程", "携程EBK", "美团"} {
		require.NoError(t, repo.Create(context.Background(), &models.DailyRevenue{
			RecordDate: time.Date(2024, 1, 8+i, 0, 0, 0, 0, time.UTC),
			Channel:    ch,
			FeeType:    "房费",
			RoomNights: decimal.NewFromInt(2),
			Revenue:    decimal.NewFromInt(400),
		}))
	}

	h := NewHandler(analyticsService.NewService(repo))
	r := gin.New()
	r.POST("/api/v1/analytics/query", h.Query)
	return r
}

func post(t *testing.T, r *gin.Engine, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/query", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestHandler_Query(t *testing.T) {
	r := setupRouter(t)

	status, env := post(t, r, map[string]interface{}{
		"dimension":          "channel",
		"metrics":            []string{"revenue"},
		"start_date":         "2024-01-01",
		"end_date":           "2024-01-31",
		"chart_type":         "pie",
		"normalize_channels": true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "0", string(env["code"]))

	var result analyticsService.Result
	require.NoError(t, json.Unmarshal(env["data"], &result))
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "携程", result.Rows[0].Key)
	assert.Equal(t, 800.0, result.Rows[0].Values["revenue"])
	assert.InDelta(t, 66.67, result.Rows[0].Percentage, 0.01)
	assert.Equal(t, 1200.0, result.Totals["revenue"])

	t.Run("非法维度", func(t *testing.T) {
		_, env := post(t, r, map[string]interface{}{
			"dimension": "guest_name", "metrics": []string{"revenue"},
			"start_date": "2024-01-01", "end_date": "2024-01-31",
		})
		assert.JSONEq(t, strconv.Itoa(commonErrors.ErrInvalidDimension.Code), string(env["code"]))
	})

	t.Run("缺少日期", func(t *testing.T) {
		status, _ := post(t, r, map[string]interface{}{"dimension": "channel"})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
