package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const indexFile = "index.html"

// ServeStatic answers every unmatched GET or HEAD. A path naming a regular file
// under StaticDir is served as is; anything else gets the single page entry
// point.
func (rs *RestfulServer) ServeStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if file, ok := rs.resolveStatic(c.Request.URL.Path); ok {
		c.File(file)
		return
	}

	index := filepath.Join(rs.StaticDir, indexFile)
	if _, err := os.Stat(index); err != nil {
		logger().Warn("Missing static entry point", zap.String("path", index), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(index)
}

func (rs *RestfulServer) resolveStatic(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || rs.StaticDir == "" {
		return "", false
	}

	root, err := filepath.Abs(rs.StaticDir)
	if err != nil {
		return "", false
	}
	file := filepath.Join(root, filepath.FromSlash(rel))
	if file != root && !strings.HasPrefix(file, root+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return file, true
}
