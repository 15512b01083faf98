package daemon

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlie0129/batalert/pkg/version"
)

func (s *server) getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.store.Status())
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
