package extracted

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/documents"
	"cv-backend/internal/parse"
	"cv-backend/internal/shared/server/middleware"
	"cv-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/extracted", h.get)
	rg.PUT("/documents/:id/extracted", h.update)
}

// InfoResponse is the outward-facing representation of an extraction.
type InfoResponse struct {
	DocumentID string       `json:"documentId"`
	Resume     parse.Resume `json:"extracted"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func toResponse(info Info) InfoResponse {
	return InfoResponse{
		DocumentID: info.DocumentID,
		Resume:     info.Resume,
		UpdatedAt:  info.UpdatedAt,
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	info, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "extracted info not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extracted info", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(info))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var resume parse.Resume
	if err := c.ShouldBindJSON(&resume); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	info, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), resume)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update extracted info", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(info))
}
