package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ngo-site/internal/models"
	"ngo-site/internal/repository"
	"ngo-site/internal/storage"
	ws "ngo-site/internal/websocket"
)

type DonorHandler struct {
	Repo  *repository.DonorRepo
	Store storage.MediaStore
	Hub   *ws.Hub
}

func NewDonorHandler(repo *repository.DonorRepo, store storage.MediaStore, hub *ws.Hub) *DonorHandler {
	return &DonorHandler{Repo: repo, Store: store, Hub: hub}
}

// List is the public donor wall, newest first. Degrades to an empty list
// when no database is configured.
func (h *DonorHandler) List(c *gin.Context) {
	donors, err := h.Repo.List(c.Request.Context())
	if errors.Is(err, repository.ErrNotConfigured) {
		c.JSON(http.StatusOK, gin.H{"donors": []models.Donor{}})
		return
	}
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

// Create adds a donor from a multipart form with an optional logo upload.
func (h *DonorHandler) Create(c *gin.Context) {
	if !h.Repo.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
		return
	}

	name := c.PostForm("name")
	tier := c.PostForm("tier")
	if name == "" || tier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and tier required"})
		return
	}
	if !models.ValidDonorTier(tier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier must be one of Platinum, Gold, Silver, Bronze"})
		return
	}

	donor := models.Donor{
		Name:             name,
		Tier:             tier,
		Website:          optString(c.PostForm("website")),
		DonatedCommodity: optString(c.PostForm("donatedCommodity")),
	}
	// amount validity is a client concern; unparseable input is dropped
	if raw := c.PostForm("donatedAmount"); raw != "" {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			donor.DonatedAmount = &amount
		}
	}

	ctx := c.Request.Context()
	if fh, err := c.FormFile("logo"); err == nil {
		data, err := readUpload(fh, MaxAttachmentSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		obj, err := storeUpload(ctx, h.Store, data, fh.Filename)
		if err != nil {
			log.Println("Logo upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		donor.LogoURL = &obj.URL
		donor.LogoBackendRef = optString(obj.BackendRef)
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid logo upload"})
		return
	}

	created, err := h.Repo.Create(ctx, donor)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("donors", "created", created.ID)
	c.JSON(http.StatusCreated, gin.H{"donor": created})
}

// Delete removes a donor, cleaning up the logo blob best-effort.
func (h *DonorHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	donor, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	deleteBlob(ctx, h.Store, strOrEmpty(donor.LogoURL), strOrEmpty(donor.LogoBackendRef))

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("donors", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

// Reorder sets each donor's position to its index in the submitted list.
func (h *DonorHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must be an array"})
		return
	}

	if err := h.Repo.Reorder(c.Request.Context(), req.OrderedIDs); err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("donors", "reordered", "")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
