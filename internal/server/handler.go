package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumescreen/internal/observability"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// rejectRequest records a validation failure on the span and answers 400.
func rejectRequest(w http.ResponseWriter, span trace.Span, err error, title, detail string) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))
	writeErrorResponse(w, title, detail, http.StatusBadRequest)
}

// writeTracedResult encodes the handler result, recording encode failures on
// the span.
func writeTracedResult(w http.ResponseWriter, span trace.Span, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createScoreHandler serves single resume-vs-job scoring. Each request runs
// under a span, and the embedding call count is attributed to the "score"
// operation.
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumescreen.api").Start(r.Context(), "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			rejectRequest(w, span, err, "Invalid request body", err.Error())
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			rejectRequest(w, span, fmt.Errorf("missing resume text"),
				"Missing resume text", "resumeText field is required")
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			rejectRequest(w, span, fmt.Errorf("missing job description"),
				"Missing job description", "jobDescription field is required")
			return
		}

		// The request body limit is split between the two documents.
		fieldLimit := int(s.MaxRequestSize / 2)
		if len(req.ResumeText) > fieldLimit {
			rejectRequest(w, span, fmt.Errorf("resume too large: %d chars", len(req.ResumeText)),
				"Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", fieldLimit))
			return
		}
		if len(req.JobDescription) > fieldLimit {
			rejectRequest(w, span, fmt.Errorf("job description too large: %d chars", len(req.JobDescription)),
				"Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", fieldLimit))
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "score"),
		)

		metrics := om.GetMetrics()
		var result *types.ScreenResumeOutput
		err := metrics.TrackEmbeddingOperation(ctx, "score", func(ctx context.Context) *observability.EmbeddingOperationResult {
			callsBefore := s.Embedding.Calls()
			output, scoreErr := s.Engine.Score(ctx, req.ResumeText, req.JobDescription)
			result = output
			return &observability.EmbeddingOperationResult{
				Error:          scoreErr,
				EmbeddingCalls: s.Embedding.Calls() - callsBefore,
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "scoring"))
			metrics.RecordBusinessMetric(ctx, "resume_scored", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to score resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.Float64("score.final", result.Breakdown.FinalScore),
			attribute.String("assessment", string(result.Report.Assessment)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.final_score", result.Breakdown.FinalScore),
			attribute.String("response.assessment", string(result.Report.Assessment)),
		)

		writeTracedResult(w, span, result)
	}
}

// createBatchHandler serves batch ranking of multiple resumes against one job
// description.
func (s *Server) createBatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumescreen.api").Start(r.Context(), "api.batch")
		defer span.End()

		var req BatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			rejectRequest(w, span, err, "Invalid request body", err.Error())
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			rejectRequest(w, span, fmt.Errorf("missing job description"),
				"Missing job description", "jobDescription field is required")
			return
		}
		if len(req.Resumes) == 0 {
			rejectRequest(w, span, fmt.Errorf("empty resume list"),
				"Missing resumes", "resumes field must contain at least one entry")
			return
		}
		if s.MaxBatchSize > 0 && len(req.Resumes) > s.MaxBatchSize {
			rejectRequest(w, span, fmt.Errorf("batch too large: %d resumes", len(req.Resumes)),
				"Batch too large", fmt.Sprintf("resumes exceeds the batch limit of %d entries", s.MaxBatchSize))
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.batch_size", len(req.Resumes)),
			attribute.String("operation", "batch"),
		)

		metrics := om.GetMetrics()
		metrics.RecordBatchSize(ctx, len(req.Resumes), om)

		var result *types.BatchScreenOutput
		err := metrics.TrackEmbeddingOperation(ctx, "batch", func(ctx context.Context) *observability.EmbeddingOperationResult {
			callsBefore := s.Embedding.Calls()
			output, batchErr := s.Engine.ScoreBatch(ctx, req.JobDescription, req.Resumes)
			result = output
			return &observability.EmbeddingOperationResult{
				Error:          batchErr,
				EmbeddingCalls: s.Embedding.Calls() - callsBefore,
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "batch_ranked", false, om)
			writeErrorResponse(w, "Failed to rank batch", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "batch_ranked", true, om,
			attribute.Int("ranked_count", len(result.Candidates)),
			attribute.Int("skipped_count", len(result.Skipped)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.ranked_count", len(result.Candidates)),
			attribute.Int("response.skipped_count", len(result.Skipped)),
		)

		writeTracedResult(w, span, result)
	}
}

// createExtractHandler serves profile extraction. Extraction is pure text
// analysis and never reaches the embedding provider, so it is not tracked as
// an embedding operation.
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumescreen.api").Start(r.Context(), "api.extract_skills")
		defer span.End()

		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			rejectRequest(w, span, err, "Invalid request body", err.Error())
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			rejectRequest(w, span, fmt.Errorf("missing resume text"),
				"Missing resume text", "resumeText field is required")
			return
		}
		if len(req.ResumeText) > int(s.MaxRequestSize) {
			rejectRequest(w, span, fmt.Errorf("resume too large: %d chars", len(req.ResumeText)),
				"Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize))
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "extract_skills"),
		)

		result := s.Engine.Extract(req.ResumeText)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "profile_extracted", true, om,
			attribute.Int("skills_count", len(result.Skills)),
			attribute.Int("education_count", len(result.Education)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skills_count", len(result.Skills)),
		)

		writeTracedResult(w, span, result)
	}
}

// createRateLimitMiddleware layers rate limit hit metrics on top of the plain
// limiter middleware. The response writer is wrapped outside the limiter so a
// 429 written by the limiter itself is observed.
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	limit := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := limit(next)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper captures the status code written by the inner handler.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
