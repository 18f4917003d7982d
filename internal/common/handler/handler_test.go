package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestContextWithQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c, w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	t.Run("nil 错误", func(t *testing.T) {
		c, w := createTestContextWithQuery("")
		assert.False(t, HandleError(c, nil))
		assert.Zero(t, w.Body.Len())
	})

	t.Run("业务错误返回 200 和错误码", func(t *testing.T) {
		c, w := createTestContextWithQuery("")
		assert.True(t, HandleError(c, errors.ErrRecordNotFound))
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, errors.ErrRecordNotFound.Code, resp.Code)
		assert.Equal(t, errors.ErrRecordNotFound.Message, resp.Message)
	})

	t.Run("包装后的业务错误", func(t *testing.T) {
		c, w := createTestContextWithQuery("")
		err := errors.ErrDatabaseError.WithError(stderrors.New("connection reset"))
		assert.True(t, HandleError(c, err))
		resp := parseResponse(t, w)
		assert.Equal(t, errors.ErrDatabaseError.Code, resp.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("普通错误隐藏细节", func(t *testing.T) {
		c, w := createTestContextWithQuery("")
		assert.True(t, HandleError(c, stderrors.New("secret detail")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})
}

func TestMustSucceed(t *testing.T) {
	c, w := createTestContextWithQuery("")
	MustSucceed(c, nil, gin.H{"ok": true})
	resp := parseResponse(t, w)
	assert.Equal(t, 0, resp.Code)

	c, w = createTestContextWithQuery("")
	MustSucceed(c, errors.ErrInvalidRooms, nil)
	assert.Equal(t, errors.ErrInvalidRooms.Code, parseResponse(t, w).Code)
}

func TestMustSucceedPage(t *testing.T) {
	c, w := createTestContextWithQuery("")
	MustSucceedPage(c, nil, []int{1, 2}, 10, utils.Pagination{Offset: 2, Limit: 2})

	var body struct {
		Code int `json:"code"`
		Data struct {
			List   []int `json:"list"`
			Total  int64 `json:"total"`
			Offset int   `json:"offset"`
			Limit  int   `json:"limit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{1, 2}, body.Data.List)
	assert.Equal(t, int64(10), body.Data.Total)
	assert.Equal(t, 2, body.Data.Offset)
}

func TestRequireAdminID(t *testing.T) {
	c, _ := createTestContextWithQuery("")
	c.Set(middleware.ContextKeyAdminID, int64(1))
	id, ok := RequireAdminID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	c, w := createTestContextWithQuery("")
	_, ok = RequireAdminID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseID(t *testing.T) {
	for _, tc := range []struct {
		raw string
		ok  bool
	}{
		{"42", true},
		{"abc", false},
		{"0", false},
		{"-1", false},
	} {
		t.Run(tc.raw, func(t *testing.T) {
			c, w := createTestContextWithQuery("")
			c.Params = gin.Params{{Key: "id", Value: tc.raw}}
			id, ok := ParseID(c, "记录")
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, int64(42), id)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), "无效的记录ID")
			}
		})
	}
}

func TestParseQueryInt(t *testing.T) {
	c, _ := createTestContextWithQuery("")
	v, ok := ParseQueryInt(c, "year", 2024)
	assert.True(t, ok)
	assert.Equal(t, 2024, v)

	c, _ = createTestContextWithQuery("year=2023")
	v, ok = ParseQueryInt(c, "year", 2024)
	assert.True(t, ok)
	assert.Equal(t, 2023, v)

	c, w := createTestContextWithQuery("year=abc")
	_, ok = ParseQueryInt(c, "year", 2024)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseDateRange(t *testing.T) {
	t.Run("缺省为最近 N 天", func(t *testing.T) {
		c, _ := createTestContextWithQuery("")
		start, end, ok := ParseDateRange(c, 7)
		require.True(t, ok)
		assert.Equal(t, utils.Today(), end)
		assert.Equal(t, 7, utils.DaysInclusive(start, end))
	})

	t.Run("完整区间", func(t *testing.T) {
		c, _ := createTestContextWithQuery("start_date=2024-01-01&end_date=2024/01/07")
		start, end, ok := ParseDateRange(c, 7)
		require.True(t, ok)
		assert.Equal(t, "2024-01-01", utils.FormatDate(start))
		assert.Equal(t, "2024-01-07", utils.FormatDate(end))
	})

	t.Run("只给开始日期", func(t *testing.T) {
		c, _ := createTestContextWithQuery("start_date=2024-02-26")
		_, end, ok := ParseDateRange(c, 7)
		require.True(t, ok)
		assert.Equal(t, "2024-03-03", utils.FormatDate(end))
	})

	t.Run("格式错误", func(t *testing.T) {
		c, w := createTestContextWithQuery("start_date=yesterday")
		_, _, ok := ParseDateRange(c, 7)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("结束早于开始", func(t *testing.T) {
		c, w := createTestContextWithQuery("start_date=2024-01-07&end_date=2024-01-01")
		_, _, ok := ParseDateRange(c, 7)
		assert.False(t, ok)
		assert.Equal(t, errors.ErrInvalidRange.Code, parseResponse(t, w).Code)
	})
}

func TestParseRequiredDateRange(t *testing.T) {
	c, w := createTestContextWithQuery("start_date=2024-01-01")
	_, _, ok := ParseRequiredDateRange(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, _ = createTestContextWithQuery("start_date=2024-01-01&end_date=2024-01-31")
	start, end, ok := ParseRequiredDateRange(c)
	require.True(t, ok)
	assert.Equal(t, 31, utils.DaysInclusive(start, end))
}

func TestBindPagination(t *testing.T) {
	c, _ := createTestContextWithQuery("")
	p := BindPagination(c, 100)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 100, p.Limit)

	c, _ = createTestContextWithQuery("offset=20&limit=50")
	p = BindPagination(c, 100)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, 50, p.Limit)

	c, _ = createTestContextWithQuery("offset=-1&limit=99999")
	p = BindPagination(c, 100)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, utils.MaxLimit, p.Limit)
}
