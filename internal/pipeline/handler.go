package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-insight/internal/extract"
	"resume-insight/internal/llm"
	"resume-insight/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the pipeline service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/check", h.check)
	rg.POST("/resume/analyze", h.analyze)
	rg.POST("/resume/improve-section", h.improveSection)
}

func (h *Handler) check(c *gin.Context) {
	c.Set("analysisMode", string(ModeValidityCheck))

	data, mimeType, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.Svc.AnalyzeUpload(c.Request.Context(), data, mimeType, fileName, "", ModeValidityCheck, false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) analyze(c *gin.Context) {
	mode, err := ParseMode(c.PostForm("mode"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		return
	}
	c.Set("analysisMode", string(mode))

	jobDescription := c.PostForm("job_description")
	if len(jobDescription) > h.Svc.MaxJobDescriptionChars() {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "job_description is too long", nil)
		return
	}

	force := false
	if raw := strings.TrimSpace(c.PostForm("force")); raw != "" {
		force, _ = strconv.ParseBool(raw)
	}

	data, mimeType, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.Svc.AnalyzeUpload(c.Request.Context(), data, mimeType, fileName, jobDescription, mode, force)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, result)
}

type improveSectionRequest struct {
	Section        string `json:"section"`
	Content        string `json:"content"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) improveSection(c *gin.Context) {
	c.Set("analysisMode", string(ModeSectionSuggestions))

	var req improveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "content is required", nil)
		return
	}
	if len(req.JobDescription) > h.Svc.MaxJobDescriptionChars() {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "jobDescription is too long", nil)
		return
	}

	// A lone pasted section rarely scores as a full resume, so the advisory
	// classification is bypassed for this route.
	result, err := h.Svc.Analyze(c.Request.Context(), AnalysisRequest{
		Text:           req.Content,
		JobDescription: req.JobDescription,
		Section:        req.Section,
		Mode:           ModeSectionSuggestions,
		Force:          true,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) readUpload(c *gin.Context) ([]byte, string, string, bool) {
	// Headroom over the extractor's limit so an oversized file still reaches
	// the size gate and gets the proper error instead of a truncated form.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.Svc.MaxUploadBytes()+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", nil)
		return nil, "", "", false
	}
	c.Set("fileId", fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return nil, "", "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return nil, "", "", false
	}

	return data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrTooLarge):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file exceeds the size limit", nil)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unsupported file format", nil)
	case errors.Is(err, extract.ErrCorruptDocument):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file could not be parsed", nil)
	case errors.Is(err, extract.ErrNoTextContent):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "no text content found in file", nil)
	case errors.Is(err, ErrNotAResume):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeNotAResume, "document does not look like a resume", err.Error())
	case errors.Is(err, ErrCapacityExceeded):
		respond.Error(c, http.StatusTooManyRequests, ErrorCodeCapacity, "analysis capacity exceeded, try again shortly", nil)
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodeLLMTimeout, "analysis timed out", nil)
	case errors.Is(err, llm.ErrUnavailable), errors.Is(err, llm.ErrTransport):
		respond.Error(c, http.StatusBadGateway, ErrorCodeLLMUnavailable, "analysis provider unavailable", nil)
	case errors.Is(err, ErrInvalidAIResponse):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeSchemaMismatch, "analysis produced an unusable result", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "unexpected server error", nil)
	}
}
