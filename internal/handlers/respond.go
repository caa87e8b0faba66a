package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// respondError maps service errors onto HTTP responses. Protocol
// rejections carry their code so clients can branch on them.
func respondError(c *gin.Context, err error) {
	var perr *models.ProtocolError
	if errors.As(err, &perr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": perr.Message, "code": perr.Code})
		return
	}
	var cerr *models.ConflictError
	if errors.As(err, &cerr) {
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Message})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func walletFrom(c *gin.Context) string {
	return c.GetString("wallet")
}
