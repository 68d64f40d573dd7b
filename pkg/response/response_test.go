package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessAndCreated(t *testing.T) {
	w := serve(func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode(t, w).Code)

	w = serve(func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(func(c *gin.Context) { NoContent(c) })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"字段错误", apperrors.ErrInvalidParams.WithFields(apperrors.FieldError{Field: "name", Message: "不能为空"}), http.StatusBadRequest, apperrors.ErrCodeInvalidParams},
		{"不存在", apperrors.ErrNotFound, http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"冲突", apperrors.ErrConflict, http.StatusConflict, apperrors.ErrCodeConflict},
		{"重复", apperrors.ErrDuplicateEntry, http.StatusUnprocessableEntity, apperrors.ErrCodeDuplicateEntry},
		{"存储失败", apperrors.Wrap(errors.New("dial tcp: refused"), "数据库错误"), http.StatusInternalServerError, apperrors.ErrCodeDatabaseError},
		{"非AppError", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)

			resp := decode(t, w)
			assert.Equal(t, tt.code, resp.Code)
			// 内部错误不泄露
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}

	w := serve(func(c *gin.Context) {
		Error(c, apperrors.ErrInvalidParams.WithFields(apperrors.FieldError{Field: "name", Message: "不能为空"}))
	})
	resp := decode(t, w)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "name", resp.Fields[0].Field)
}
