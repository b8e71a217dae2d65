package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"portal-backend/internal/domain"
	"portal-backend/internal/report"
	"portal-backend/internal/service"
)

func init() {
	// Partial updates must reject keys the patch types do not know.
	binding.EnableDecoderDisallowUnknownFields = true
}

// Services groups the domain services served over HTTP.
type Services struct {
	Users     service.UserService
	Items     service.ItemService
	Contacts  service.ContactService
	Access    service.AccessService
	Dashboard service.DashboardService
	Reports   service.ReportService
}

// Options tunes the HTTP layer.
type Options struct {
	AllowedOrigins []string
	// TrustedProxies are the addresses or CIDRs allowed to set X-Forwarded-For.
	// Empty means the peer address is always the client IP.
	TrustedProxies []string
	AutoAccessLog  bool
	Logger         *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	items     service.ItemService
	contacts  service.ContactService
	access    service.AccessService
	dashboard service.DashboardService
	reports   service.ReportService

	origins       []string
	proxies       []string
	autoAccessLog bool
	logger        *logrus.Logger
}

func NewHandler(services Services, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:         services.Users,
		items:         services.Items,
		contacts:      services.Contacts,
		access:        services.Access,
		dashboard:     services.Dashboard,
		reports:       services.Reports,
		origins:       opts.AllowedOrigins,
		proxies:       opts.TrustedProxies,
		autoAccessLog: opts.AutoAccessLog,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) error {
	if err := router.SetTrustedProxies(h.proxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(requestLogger(h.logger), corsMiddleware(h.origins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Portal API"})
	})

	api := router.Group("/api")
	if h.autoAccessLog {
		api.Use(h.accessLogMiddleware())
	}
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/users", h.listUsers)
		api.POST("/users", h.createUser)
		api.GET("/users/:id", h.getUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.GET("/items", h.listItems)
		api.POST("/items", h.createItem)
		api.GET("/items/:id", h.getItem)
		api.PUT("/items/:id", h.updateItem)
		api.DELETE("/items/:id", h.deleteItem)

		api.GET("/contact", h.listContacts)
		api.POST("/contact", h.createContact)
		api.GET("/contact/:id", h.getContact)
		api.PUT("/contact/:id", h.updateContact)
		api.DELETE("/contact/:id", h.deleteContact)
	}

	reports := api.Group("/reports")
	{
		reports.POST("/log-access", h.logAccess)
		reports.GET("/stats", h.stats)
		reports.GET("/recent-access", h.recentAccess)
		reports.GET("/user-access/:user_id", h.userAccess)
		reports.GET("/access/:id", h.getAccess)
		reports.DELETE("/access/:id", h.deleteAccess)

		reports.GET("/users", h.serveReport(report.KindUsers))
		reports.GET("/items", h.serveReport(report.KindItems))
		reports.GET("/comprehensive", h.serveReport(report.KindComprehensive))
		reports.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"service": "PDF Reports",
				"version": "1.0.0",
			})
		})
	}
	return nil
}

// writeError maps domain errors onto status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, report.ErrGeneration):
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("error generating report: %v", err)})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, domain.ErrInvalid)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, domain.ErrInvalid)
	}
	return v, nil
}

// pageParams reads skip and limit, defaulting limit per endpoint.
func pageParams(c *gin.Context, defaultLimit int) (service.Page, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return service.Page{}, err
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return service.Page{}, err
	}
	return service.NewPage(skip, limit)
}

// bindJSON decodes the request body, rejecting unknown fields and failed validation.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalid)
	}
	return nil
}
