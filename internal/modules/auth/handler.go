package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scrapbook-space/core/internal/middleware"
	"github.com/scrapbook-space/core/internal/pkg/response"
)

type loginDTO struct {
	Password string `json:"password" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	{
		a.POST("/login", h.Login)
		a.GET("/check", middleware.OptionalAuth(), h.Check)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var body loginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.service.Login(body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.Forbidden(c, err.Error())
		case errors.Is(err, ErrLoginDisabled):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"token": token})
}

// Check tells the admin panel whether its stored token is still good.
func (h *Handler) Check(c *gin.Context) {
	authed := middleware.IsAuthenticated(c)
	response.OK(c, gin.H{
		"isGuest": !authed,
		"session": middleware.CurrentSessionID(c),
	})
}
