// Package pipeline orchestrates resume analysis: heuristic classification,
// gated AI inference, and defensive normalization of model output.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-insight/internal/classify"
	"resume-insight/internal/documents"
	"resume-insight/internal/extract"
	"resume-insight/internal/llm"
	"resume-insight/internal/shared/metrics"
	"resume-insight/internal/shared/storage/object"
	"resume-insight/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// AnalysisRequest carries one analysis over already-extracted text.
type AnalysisRequest struct {
	Text           string
	JobDescription string
	Section        string
	Mode           Mode
	Force          bool
}

// ServiceOptions configures optional collaborators and limits.
type ServiceOptions struct {
	AITimeout              time.Duration
	MaxUploadBytes         int64
	MaxJobDescriptionChars int
	Store                  object.ObjectStore
	Repo                   documents.DocumentsRepo
}

// Service runs the analysis pipeline.
type Service struct {
	client llm.Client
	gate   *Gate
	opts   ServiceOptions
}

// NewService constructs a Service.
func NewService(client llm.Client, gate *Gate, opts ServiceOptions) *Service {
	if opts.AITimeout <= 0 {
		opts.AITimeout = 60 * time.Second
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	if opts.MaxJobDescriptionChars <= 0 {
		opts.MaxJobDescriptionChars = 20000
	}
	return &Service{client: client, gate: gate, opts: opts}
}

// MaxUploadBytes reports the upload size limit the extractor enforces.
func (s *Service) MaxUploadBytes() int64 { return s.opts.MaxUploadBytes }

// MaxJobDescriptionChars reports the job description length limit.
func (s *Service) MaxJobDescriptionChars() int { return s.opts.MaxJobDescriptionChars }

// AnalyzeUpload extracts text from the uploaded bytes and analyzes it.
// Extraction errors come back wrapped and errors.Is-able against the extract
// sentinels. Successful extraction triggers the persistence hook regardless of
// how the analysis itself ends.
func (s *Service) AnalyzeUpload(ctx context.Context, data []byte, mimeType, fileName, jobDescription string, mode Mode, force bool) (AnalysisResult, error) {
	format, err := extract.ParseFormat(mimeType, fileName)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("parse format %q: %w", fileName, err)
	}

	text, err := extract.FromBytes(data, format, s.opts.MaxUploadBytes)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("extract %q: %w", fileName, err)
	}

	verdict := classify.Classify(text)
	var isResume *bool
	if verdict.Confident {
		v := verdict.IsResume
		isResume = &v
	}
	s.persistAsync(fileName, mimeType, data, text, mode, isResume)

	return s.Analyze(ctx, AnalysisRequest{
		Text:           text,
		JobDescription: jobDescription,
		Mode:           mode,
		Force:          force,
	})
}

// Analyze runs classification, inference, and normalization for the request.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	start := time.Now()
	metrics.IncAnalysisStarted()

	result, err := s.analyze(ctx, req)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncAnalysisFailed()
		return AnalysisResult{}, err
	}
	metrics.IncAnalysisCompleted()
	return result, nil
}

func (s *Service) analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return AnalysisResult{}, fmt.Errorf("analyze: %w", extract.ErrNoTextContent)
	}

	jd := truncateRunes(req.JobDescription, s.opts.MaxJobDescriptionChars)

	verdict := classify.Classify(text)

	var prompt string
	switch req.Mode {
	case ModeValidityCheck:
		// A confident heuristic verdict answers the question without a model
		// call; only the ambiguous middle band escalates.
		if verdict.Confident {
			metrics.IncHeuristicShortcut()
			return AnalysisResult{
				Mode: ModeValidityCheck,
				Validity: &ValidityResult{
					IsResume:   verdict.IsResume,
					Confidence: clampUnit(verdict.Confidence),
					Rationale:  verdict.Rationale,
				},
			}, nil
		}
		prompt = llm.BuildValidityPrompt(text)
	case ModeFullMatch:
		if verdict.Confident && !verdict.IsResume && !req.Force {
			metrics.IncAnalysisRejected()
			return AnalysisResult{}, fmt.Errorf("%w: %s", ErrNotAResume, verdict.Rationale)
		}
		prompt = llm.BuildMatchPrompt(text, jd)
	case ModeSectionSuggestions:
		if verdict.Confident && !verdict.IsResume && !req.Force {
			metrics.IncAnalysisRejected()
			return AnalysisResult{}, fmt.Errorf("%w: %s", ErrNotAResume, verdict.Rationale)
		}
		prompt = llm.BuildSuggestionsPrompt(text, jd, req.Section)
	default:
		return AnalysisResult{}, fmt.Errorf("analyze: unknown mode %q", req.Mode)
	}

	raw, err := s.infer(ctx, prompt)
	if err != nil {
		return AnalysisResult{}, err
	}

	result, err := Normalize(raw, req.Mode)
	if err != nil {
		telemetry.Error("pipeline.normalize_failed", map[string]any{
			"mode":  string(req.Mode),
			"error": err.Error(),
		})
		return AnalysisResult{}, err
	}
	result.Model = s.client.Model()
	return result, nil
}

// infer performs the gated model call with a single retry on transient
// failures. Each attempt gets its own deadline.
func (s *Service) infer(ctx context.Context, prompt string) (string, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			metrics.IncGateTimeout()
		}
		return "", err
	}
	defer s.gate.Release()

	raw, err := s.inferOnce(ctx, prompt)
	if err == nil || !llm.Retryable(err) {
		return raw, err
	}

	telemetry.Warn("llm.retry", map[string]any{"error": err.Error()})
	metrics.IncAIRetry()

	select {
	case <-time.After(retryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return s.inferOnce(ctx, prompt)
}

// truncateRunes cuts on a rune boundary so a multi-byte character straddling
// the limit never leaves invalid UTF-8 in the prompt.
func truncateRunes(s string, maxRunes int) string {
	if len(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

func (s *Service) inferOnce(ctx context.Context, prompt string) (string, error) {
	metrics.IncAICall()
	callCtx, cancel := context.WithTimeout(ctx, s.opts.AITimeout)
	defer cancel()
	return s.client.Infer(callCtx, prompt)
}

// persistAsync stores the original bytes, the extracted text, and a document
// row off the request path. Failures are logged and never surface to the
// caller.
func (s *Service) persistAsync(fileName, mimeType string, data []byte, text string, mode Mode, isResume *bool) {
	if s.opts.Store == nil && s.opts.Repo == nil {
		return
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		id := uuid.NewString()
		doc := documents.Document{
			ID:        id,
			FileName:  fileName,
			MimeType:  mimeType,
			SizeBytes: int64(len(buf)),
			Mode:      string(mode),
			IsResume:  isResume,
			CreatedAt: time.Now().UTC(),
		}

		if s.opts.Store != nil {
			key, _, detected, err := s.opts.Store.Save(ctx, fileName, bytes.NewReader(buf))
			if err != nil {
				telemetry.Error("pipeline.persist_file_failed", map[string]any{
					"file_id": id,
					"error":   err.Error(),
				})
			} else {
				doc.StorageKey = key
				if doc.MimeType == "" {
					doc.MimeType = detected
				}
			}
		}

		// The row is written before the text archive so a failed archive still
		// leaves an auditable record; the text key is attached afterwards.
		if s.opts.Repo != nil {
			if err := s.opts.Repo.Create(ctx, doc); err != nil {
				telemetry.Error("pipeline.persist_row_failed", map[string]any{
					"file_id": id,
					"error":   err.Error(),
				})
				return
			}
		}

		if s.opts.Store != nil {
			textKey := "text/" + id + ".txt"
			if _, err := s.opts.Store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
				telemetry.Error("pipeline.persist_text_failed", map[string]any{
					"file_id": id,
					"error":   err.Error(),
				})
			} else if s.opts.Repo != nil {
				if err := s.opts.Repo.UpdateText(ctx, id, textKey); err != nil {
					telemetry.Error("pipeline.persist_text_key_failed", map[string]any{
						"file_id": id,
						"error":   err.Error(),
					})
				}
			}
		}

		telemetry.Info("pipeline.persisted", map[string]any{
			"file_id":   id,
			"file_name": fileName,
			"mode":      string(mode),
		})
	}()
}
