package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/domain"
	"portal-backend/internal/report"
	"portal-backend/internal/service"
)

const (
	defaultRecentAccessLimit = 50
	defaultUserAccessLimit   = 100
)

type logAccessRequest struct {
	UserID     *int64  `json:"user_id"`
	IPAddress  string  `json:"ip_address"`
	UserAgent  string  `json:"user_agent"`
	Endpoint   *string `json:"endpoint"`
	Method     *string `json:"method"`
	StatusCode *int    `json:"status_code"`
}

func requestInfo(c *gin.Context) service.RequestInfo {
	return service.RequestInfo{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *Handler) logAccess(c *gin.Context) {
	var req logAccessRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	log, err := h.access.Log(c.Request.Context(), domain.AccessLogInput{
		UserID:     req.UserID,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Endpoint:   req.Endpoint,
		Method:     req.Method,
		StatusCode: req.StatusCode,
	}, requestInfo(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accessLogToResponse(*log))
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsToResponse(*stats))
}

func (h *Handler) recentAccess(c *gin.Context) {
	page, err := pageParams(c, defaultRecentAccessLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	entries, err := h.dashboard.RecentAccess(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accessLogEntriesToResponse(entries))
}

func (h *Handler) userAccess(c *gin.Context) {
	userID, err := parseID(c, "user_id")
	if err != nil {
		h.writeError(c, err)
		return
	}
	page, err := pageParams(c, defaultUserAccessLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	entries, err := h.dashboard.UserAccess(c.Request.Context(), userID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accessLogEntriesToResponse(entries))
}

func (h *Handler) getAccess(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	log, err := h.access.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accessLogToResponse(*log))
}

func (h *Handler) deleteAccess(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.access.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access log deleted successfully"})
}

// serveReport streams a generated PDF as an attachment, or the intermediate markup
// when format=html is requested.
func (h *Handler) serveReport(kind report.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch format := c.DefaultQuery("format", "pdf"); format {
		case "pdf":
		case "html":
			markup, err := h.reports.Preview(c.Request.Context(), kind)
			if err != nil {
				h.writeError(c, err)
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", markup)
			return
		default:
			h.writeError(c, fmt.Errorf("unsupported report format %q: %w", format, domain.ErrInvalid))
			return
		}

		doc, err := h.reports.Generate(c.Request.Context(), kind)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
		c.Data(http.StatusOK, "application/pdf", doc.Content)
	}
}
