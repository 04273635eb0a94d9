package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-insight/internal/shared/server/respond"
)

const (
	errorCodeValidation = "VALIDATION_ERROR"
	errorCodeNotFound   = "NOT_FOUND"
	errorCodeInternal   = "INTERNAL_ERROR"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler serves read access to stored document metadata.
type Handler struct {
	Repo DocumentsRepo
}

// NewHandler constructs a Handler.
func NewHandler(repo DocumentsRepo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultListLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	docs, err := h.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, errorCodeInternal, "unable to list documents", nil)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	respond.OK(c, gin.H{
		"documents": out,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, errorCodeNotFound, "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, errorCodeInternal, "unable to load document", nil)
		return
	}
	respond.OK(c, toResponse(doc))
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respond.Error(c, http.StatusBadRequest, errorCodeValidation, name+" must be a non-negative integer", nil)
		return 0, false
	}
	return v, true
}
