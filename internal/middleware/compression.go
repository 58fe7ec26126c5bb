package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

var (
	// Prometheus negotiates its own encoding and the docs bundle ships static assets.
	uncompressedPaths = []string{"/metrics"}
	uncompressedDocs  = []string{`^/swagger/.*\.(png|ico)$`}
)

// Compression gzips responses for clients that accept it, since packing slips
// with many boxes compress well. Request bodies sent with
// Content-Encoding: gzip are inflated before binding, which lets the ERP
// post large allocation lists compressed.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths(uncompressedPaths),
		gzip.WithExcludedPathsRegexs(uncompressedDocs),
		gzip.WithDecompressFn(gzip.DefaultDecompressHandle),
	)
}
