package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ngo-site/internal/models"
	"ngo-site/internal/repository"
	"ngo-site/internal/storage"
	ws "ngo-site/internal/websocket"
)

type GalleryHandler struct {
	Repo  *repository.GalleryRepo
	Store storage.MediaStore
	Hub   *ws.Hub
}

func NewGalleryHandler(repo *repository.GalleryRepo, store storage.MediaStore, hub *ws.Hub) *GalleryHandler {
	return &GalleryHandler{Repo: repo, Store: store, Hub: hub}
}

// List is the public gallery feed. Without a database it degrades to an
// empty collection so the page still renders.
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.Repo.List(c.Request.Context())
	if errors.Is(err, repository.ErrNotConfigured) {
		c.JSON(http.StatusOK, gin.H{"images": []models.GalleryImage{}})
		return
	}
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// ListFeatured feeds the homepage slideshow.
func (h *GalleryHandler) ListFeatured(c *gin.Context) {
	images, err := h.Repo.ListFeatured(c.Request.Context())
	if errors.Is(err, repository.ErrNotConfigured) {
		c.JSON(http.StatusOK, gin.H{"images": []models.GalleryImage{}})
		return
	}
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// Upload accepts a multipart batch of images. Each blob is stored first,
// then its record persisted; the shared title falls back to each file's
// original name.
func (h *GalleryHandler) Upload(c *gin.Context) {
	// Refuse before storing blobs so a 503 cannot orphan uploads.
	if !h.Repo.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	if len(files) > MaxGalleryBatch {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many files in one batch"})
		return
	}

	title := c.PostForm("title")
	ctx := c.Request.Context()
	created := []models.GalleryImage{}

	for _, fh := range files {
		data, err := readUpload(fh, MaxGalleryImageSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		obj, err := storeUpload(ctx, h.Store, data, fh.Filename)
		if err != nil {
			log.Println("Gallery upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		imageTitle := title
		if imageTitle == "" {
			imageTitle = fh.Filename
		}
		img, err := h.Repo.Create(ctx, models.GalleryImage{
			Title:      imageTitle,
			URL:        obj.URL,
			BackendRef: optString(obj.BackendRef),
		})
		if err != nil {
			writeRepoError(c, err)
			return
		}
		created = append(created, img)
		h.Hub.Notify("gallery", "created", img.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"images": created})
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

// SetFeatured toggles whether an image appears in the homepage slideshow.
func (h *GalleryHandler) SetFeatured(c *gin.Context) {
	var req SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "featured must be a boolean"})
		return
	}

	img, err := h.Repo.SetFeatured(c.Request.Context(), c.Param("id"), *req.Featured)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("gallery", "updated", img.ID)
	c.JSON(http.StatusOK, gin.H{"image": img})
}

// Delete removes the record and, best-effort, the underlying blob.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	img, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	deleteBlob(ctx, h.Store, img.URL, strOrEmpty(img.BackendRef))

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("gallery", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
