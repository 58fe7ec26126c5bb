package middleware

import (
	"bytes"
	stdgzip "compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slipBody = strings.Repeat(`{"lot_number":"L1","qty":10},`, 200)

func compressionRouter(path string) *gin.Engine {
	router := gin.New()
	router.Use(Compression())
	router.GET(path, func(c *gin.Context) { c.String(http.StatusOK, slipBody) })
	return router
}

func TestCompression_Responses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		gzipped        bool
	}{
		{"gzip client", "/api/packing-slips", "gzip", true},
		{"several encodings offered", "/api/packing-slips", "br, gzip;q=0.8", true},
		{"no Accept-Encoding", "/api/packing-slips", "", false},
		{"metrics", "/metrics", "gzip", false},
		{"docs image", "/swagger/favicon.ico", "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			compressionRouter(tt.path).ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if !tt.gzipped {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, slipBody, w.Body.String())
				return
			}

			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			zr, err := stdgzip.NewReader(w.Body)
			require.NoError(t, err)
			plain, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, slipBody, string(plain))
		})
	}
}

func TestCompression_InflatesRequestBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var compressed bytes.Buffer
	zw := stdgzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(`{"box_capacity":100}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	router := gin.New()
	router.Use(Compression())
	router.POST("/api/packing/calculate", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/packing/calculate", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"box_capacity":100}`, w.Body.String())
}
