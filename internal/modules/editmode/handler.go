package editmode

import (
	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/pkg/response"
)

type editModeDTO struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the edit-mode endpoints. Reading is public so
// viewers can resolve affordances; flipping is an admin operation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	em := rg.Group("/edit-mode")
	{
		em.GET("", h.Get)
		em.PUT("", authMW, h.Set)
	}
}

func (h *Handler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler) Set(c *gin.Context) {
	var body editModeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	doc, err := h.service.Set(c.Request.Context(), *body.Enabled)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, doc)
}
