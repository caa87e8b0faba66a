package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/services"
)

type InstallHandler struct {
	installService *services.InstallService
}

func NewInstallHandler(installService *services.InstallService) *InstallHandler {
	return &InstallHandler{installService: installService}
}

// Create installs an asset for the signer, or for a target wallet when the
// signer is the asset's install authority
func (h *InstallHandler) Create(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Target string `json:"target"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	install, err := h.installService.CreateInstall(id, walletFrom(c), req.Target)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"install": install})
}

// CreatePermissioned installs a gated asset using an access grant
func (h *InstallHandler) CreatePermissioned(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	install, err := h.installService.CreatePermissionedInstall(id, walletFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"install": install})
}

// Delete uninstalls, refunding the storage deposit
func (h *InstallHandler) Delete(c *gin.Context) {
	installID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid install ID"})
		return
	}

	receiver := c.Query("receiver")
	if err := h.installService.DeleteInstall(installID, walletFrom(c), receiver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Installation removed"})
}
