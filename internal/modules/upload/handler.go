package upload

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/pkg/blob"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

type textDTO struct {
	Page int    `json:"page" binding:"required,min=1"`
	Text string `json:"text" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the placement endpoints. Both are admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	items := rg.Group("/items", authMW)
	{
		items.POST("/upload", h.Media)
		items.POST("/text", h.Text)
	}
}

// Media accepts a multipart form: a "file" part and a "page" field naming
// the target page number.
func (h *Handler) Media(c *gin.Context) {
	page, err := strconv.Atoi(c.PostForm("page"))
	if err != nil || page < 1 {
		response.BadRequest(c, "invalid page number")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file part")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()

	item, err := h.service.PlaceMedia(c.Request.Context(), page,
		header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) Text(c *gin.Context) {
	var body textDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.PlaceText(c.Request.Context(), body.Page, body.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var transfer *blob.TransferError
	switch {
	case errors.Is(err, ErrInvalidPage), errors.Is(err, ErrEmptyFile):
		response.BadRequest(c, err.Error())
	case errors.As(err, &transfer):
		response.BadGateway(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
