package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/layout"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

// ItemSource supplies the items placed on a page for layout resolution.
type ItemSource interface {
	ListByPage(ctx context.Context, page int) ([]models.ItemModel, error)
}

// EditModeFlag exposes the shared edit-mode switch.
type EditModeFlag interface {
	Enabled(ctx context.Context) (bool, error)
}

type Handler struct {
	service    *Service
	items      ItemSource
	flag       EditModeFlag
	breakpoint int
}

func NewHandler(service *Service, items ItemSource, flag EditModeFlag, breakpoint int) *Handler {
	return &Handler{service: service, items: items, flag: flag, breakpoint: breakpoint}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	pages := rg.Group("/pages")
	{
		pages.GET("", h.List)
		pages.GET("/:id", h.Get)
		pages.GET("/:id/layout", h.Layout)
		pages.POST("", authMW, h.Create)
		pages.PATCH("/:id", authMW, h.Rename)
		pages.DELETE("/:id", authMW, h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	pages, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, pages)
}

func (h *Handler) Get(c *gin.Context) {
	page, err := h.service.Get(c.Request.Context(), pageLabel(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, page)
}

// Layout resolves the render plan for one page against the caller's
// viewport and manipulation toggles. Below the breakpoint the plan pins
// every item into the single-column flow with affordances off.
func (h *Handler) Layout(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("id"))
	if err != nil || number < 1 {
		response.BadRequest(c, "invalid page number")
		return
	}
	viewport := layout.Viewport{
		Width:  queryFloat(c, "width", float64(layout.DefaultBreakpoint)),
		Height: queryFloat(c, "height", 0),
	}
	modes := layout.Modes{
		Drag:   c.Query("drag") == "true",
		Resize: c.Query("resize") == "true",
	}

	ctx := c.Request.Context()
	enabled, err := h.flag.Enabled(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	modes.Edit = enabled
	modes = modes.Normalize()

	items, err := h.items.ListByPage(ctx, number)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	regime := layout.RegimeFor(viewport, h.breakpoint)
	plan := layoutDTO{
		Page:     fmt.Sprintf("Page %d", number),
		Regime:   regime,
		EditMode: enabled,
		Frame:    layout.PageFrameFor(viewport, regime),
		Items:    make([]layout.ItemFrame, 0, len(items)),
	}
	for i := range items {
		plan.Items = append(plan.Items, layout.ItemFrameFor(&items[i], regime, modes))
	}
	response.OK(c, plan)
}

func (h *Handler) Create(c *gin.Context) {
	var body pageDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.service.Create(c.Request.Context(), body.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, page)
}

func (h *Handler) Rename(c *gin.Context) {
	var body pageDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.service.Rename(c.Request.Context(), pageLabel(c.Param("id")), body.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, page)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), pageLabel(c.Param("id"))); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

// pageLabel accepts either the stored label ("Page 3") or a bare number.
func pageLabel(raw string) string {
	if n, err := strconv.Atoi(raw); err == nil {
		return fmt.Sprintf("Page %d", n)
	}
	return raw
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidTitle):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
