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

type MemberHandler struct {
	Repo  *repository.MemberRepo
	Store storage.MediaStore
	Hub   *ws.Hub
}

func NewMemberHandler(repo *repository.MemberRepo, store storage.MediaStore, hub *ws.Hub) *MemberHandler {
	return &MemberHandler{Repo: repo, Store: store, Hub: hub}
}

// List is the public team page, ordered by the admin-set positions.
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.Repo.List(c.Request.Context())
	if errors.Is(err, repository.ErrNotConfigured) {
		c.JSON(http.StatusOK, gin.H{"members": []models.Member{}})
		return
	}
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Create adds a team member from a multipart form with an optional photo.
func (h *MemberHandler) Create(c *gin.Context) {
	if !h.Repo.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	member := models.Member{
		Name:    name,
		Role:    c.PostForm("role"),
		Bio:     optString(c.PostForm("bio")),
		InstaID: optString(c.PostForm("instaId")),
		Email:   optString(c.PostForm("email")),
		Contact: optString(c.PostForm("contact")),
	}

	ctx := c.Request.Context()
	if fh, err := c.FormFile("photo"); err == nil {
		data, err := readUpload(fh, MaxAttachmentSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		obj, err := storeUpload(ctx, h.Store, data, fh.Filename)
		if err != nil {
			log.Println("Photo upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		member.PhotoURL = &obj.URL
		member.PhotoBackendRef = optString(obj.BackendRef)
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload"})
		return
	}

	created, err := h.Repo.Create(ctx, member)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("members", "created", created.ID)
	c.JSON(http.StatusCreated, gin.H{"member": created})
}

// Delete removes a member, cleaning up the photo blob best-effort.
func (h *MemberHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	member, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	deleteBlob(ctx, h.Store, strOrEmpty(member.PhotoURL), strOrEmpty(member.PhotoBackendRef))

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("members", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reorder sets each member's position to its index in the submitted list.
func (h *MemberHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must be an array"})
		return
	}

	if err := h.Repo.Reorder(c.Request.Context(), req.OrderedIDs); err != nil {
		writeRepoError(c, err)
		return
	}

	h.Hub.Notify("members", "reordered", "")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
