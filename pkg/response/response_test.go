package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantJSON   map[string]any
	}{
		{
			name: "success defaults to 200",
			handler: func(c *gin.Context) {
				Success(c, 0, gin.H{"id": "u-1"}, "ok", nil)
			},
			wantStatus: http.StatusOK,
			wantJSON:   map[string]any{"success": true, "message": "ok", "data": map[string]any{"id": "u-1"}},
		},
		{
			name: "error defaults to 400 and carries details",
			handler: func(c *gin.Context) {
				Error[any](c, 0, "invalid payload", map[string]string{"email": "is required"})
				c.String(http.StatusTeapot, "unreachable")
			},
			wantStatus: http.StatusBadRequest,
			wantJSON:   map[string]any{"success": false, "message": "invalid payload", "error": map[string]any{"email": "is required"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { c.Set("request_id", "req-1") }, tt.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "req-1", body["request_id"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
			for k, v := range tt.wantJSON {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}
