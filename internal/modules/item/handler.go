package item

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/modules/layout"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the item endpoints. Manipulation is open to any
// viewer but gated server-side by the shared edit-mode flag; deletion is
// an admin operation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	items := rg.Group("/items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.PATCH("/:id/position", h.Position)
		items.PATCH("/:id/size", h.Size)
		items.PATCH("/:id/font", h.Font)
		items.DELETE("/:id", authMW, h.Delete)
	}
}

// List returns every placed item grouped by page number, or a flat slice
// for a single page when ?page=N is given.
func (h *Handler) List(c *gin.Context) {
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			response.BadRequest(c, "invalid page number")
			return
		}
		items, err := h.service.ListByPage(c.Request.Context(), page)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, items)
		return
	}

	groups, err := h.service.ListGrouped(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	// JSON objects key on strings; keep page numbers readable.
	out := make(map[string]interface{}, len(groups))
	for page, items := range groups {
		out[strconv.Itoa(page)] = items
	}
	response.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) Position(c *gin.Context) {
	var body positionDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.DragStop(c.Request.Context(), c.Param("id"), body.Version,
		*body.X, *body.Y, layout.Modes{Drag: body.DragMode})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) Size(c *gin.Context) {
	var body sizeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.ResizeStop(c.Request.Context(), c.Param("id"), body.Version,
		*body.Width, *body.Height, layout.Modes{Resize: body.ResizeMode})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) Font(c *gin.Context) {
	var body fontDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.FontStep(c.Request.Context(), c.Param("id"), body.Version,
		layout.FontDirection(body.Direction))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var malformed *layout.MalformedIDError
	switch {
	case errors.As(err, &malformed):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrEditModeOff), errors.Is(err, ErrDragModeOff), errors.Is(err, ErrResizeModeOff):
		response.Forbidden(c, err.Error())
	case errors.Is(err, ErrVersionConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	default:
		response.InternalError(c, err)
	}
}
