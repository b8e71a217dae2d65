package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/domain"
	"portal-backend/internal/service"
)

type createContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) listContacts(c *gin.Context) {
	page, err := pageParams(c, defaultListLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	contacts, err := h.contacts.List(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ContactResponse, len(contacts))
	for i := range contacts {
		resp[i] = contactToResponse(contacts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createContact(c *gin.Context) {
	var req createContactRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contactToResponse(*contact))
}

func (h *Handler) getContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) updateContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var patch domain.ContactPatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) deleteContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
