package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/domain"
	"portal-backend/internal/service"
)

type createItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	OwnerID     *int64  `json:"owner_id"`
}

func (h *Handler) listItems(c *gin.Context) {
	page, err := pageParams(c, defaultListLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items, err := h.items.List(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i := range items {
		resp[i] = itemToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createItem(c *gin.Context) {
	var req createItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	item, err := h.items.Create(c.Request.Context(), service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, itemToResponse(*item))
}

func (h *Handler) getItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemToResponse(*item))
}

func (h *Handler) updateItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var patch domain.ItemPatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeError(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemToResponse(*item))
}

func (h *Handler) deleteItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
