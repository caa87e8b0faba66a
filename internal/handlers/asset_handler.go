package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/services"
)

type AssetHandler struct {
	assetService    *services.AssetService
	curationService *services.CurationService
	transferService *services.TransferService
	donationService *services.DonationService
	qrService       *services.QRService
}

func NewAssetHandler(
	assetService *services.AssetService,
	curationService *services.CurationService,
	transferService *services.TransferService,
	donationService *services.DonationService,
	qrService *services.QRService,
) *AssetHandler {
	return &AssetHandler{
		assetService:    assetService,
		curationService: curationService,
		transferService: transferService,
		donationService: donationService,
		qrService:       qrService,
	}
}

func assetIDFrom(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return uuid.Nil, false
	}
	return id, true
}

// Create publishes a new app asset
func (h *AssetHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		services.CreateAssetParams
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetService.CreateAppAsset(walletFrom(c), req.Name, req.CreateAssetParams)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// CreateAssociated publishes a collectible or collection asset backed by an
// existing token
func (h *AssetHandler) CreateAssociated(c *gin.Context) {
	var req struct {
		Kind string `json:"kind" binding:"required"`
		Mint string `json:"mint" binding:"required"`
		services.CreateAssetParams
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetService.CreateAssociatedAsset(walletFrom(c), req.Kind, req.Mint, req.CreateAssetParams)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// List returns published assets with optional tag/publisher filters
func (h *AssetHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	assets, total, err := h.assetService.GetAssets((page-1)*limit, limit, c.Query("tag"), c.Query("publisher"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// Get returns a single asset
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// Update applies partial updates to a mutable asset
func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		services.UpdateAssetParams
		CuratorSigner *string `json:"curator_signer,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetService.UpdateAsset(id, walletFrom(c), req.CuratorSigner, req.UpdateAssetParams)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// Delete removes an asset that has no live installs or reviews
func (h *AssetHandler) Delete(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	withBurn := c.DefaultQuery("burn", "false") == "true"
	if err := h.assetService.DeleteAsset(id, walletFrom(c), withBurn); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}

// SetSuspended toggles the installation freeze flag
func (h *AssetHandler) SetSuspended(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Suspended *bool `json:"suspended" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.assetService.SetSuspended(id, walletFrom(c), *req.Suspended); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Suspension updated"})
}

// SetCurator assigns an unverified curator to the asset
func (h *AssetHandler) SetCurator(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Curator string `json:"curator" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.curationService.SetCurator(id, walletFrom(c), req.Curator); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Curator assigned"})
}

// SetCuratorVerification flips the assigned curator's verified flag
func (h *AssetHandler) SetCuratorVerification(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.curationService.SetCuratorVerification(id, walletFrom(c), *req.Verified); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Curator verification updated"})
}

// Transfer moves ownership of the asset to another wallet
func (h *AssetHandler) Transfer(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Recipient string `json:"recipient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.transferService.Transfer(id, walletFrom(c), req.Recipient); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset transferred"})
}

// Donate splits a payment among the asset's creators
func (h *AssetHandler) Donate(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Amount       uint64   `json:"amount" binding:"required"`
		Destinations []string `json:"destinations" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.donationService.Donate(id, walletFrom(c), req.Amount, req.Destinations); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Donation distributed"})
}

// QRCode returns a printable PDF with the asset's install link
func (h *AssetHandler) QRCode(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.qrService.GenerateAssetQRPDF(asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="asset-qr.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
