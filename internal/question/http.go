package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-bank/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-bank/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandlers exposes the question bank over REST.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for bank endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "question_http").Logger(),
	}
}

// ListCategories handles GET /categories
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"total_categories": list.Total,
		"categories":       list.Categories,
	})
}

// GetCategory handles GET /categories/{id}
func (h *HTTPHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

// ListCategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandlers) ListCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.service.ListQuestionsByCategory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": result.Category,
	})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httperrors.RespondBadRequest(w, "page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.service.ListQuestions(r.Context(), page)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.TotalQuestions,
		"categories":      result.Categories,
	})
}

// GetQuestion handles GET /questions/{id}
func (h *HTTPHandlers) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	total, err := h.service.DeleteQuestion(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"deleted":         id,
		"total_questions": total,
	})
}

// CreateQuestion handles POST /questions. A body carrying searchTerm is
// treated as a search, as the web client expects.
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var probe struct {
		SearchTerm *string `json:"searchTerm"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		httperrors.RespondUnprocessable(w, "Invalid JSON payload")
		return
	}
	if probe.SearchTerm != nil {
		h.search(w, r, *probe.SearchTerm)
		return
	}

	var req CreateQuestionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	created, err := h.service.CreateQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"id":              created.ID,
		"total_questions": created.TotalQuestions,
	})
}

// SearchQuestions handles POST /questions/search
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req struct {
		SearchTerm *string `json:"searchTerm"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if req.SearchTerm == nil {
		httperrors.RespondValidationError(w, "searchTerm is required", "searchTerm")
		return
	}
	h.search(w, r, *req.SearchTerm)
}

func (h *HTTPHandlers) search(w http.ResponseWriter, r *http.Request, term string) {
	result, err := h.service.SearchQuestions(r.Context(), term)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// DrawQuizQuestion handles POST /quizzes
func (h *HTTPHandlers) DrawQuizQuestion(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req DrawRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	q, err := h.service.DrawQuizQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

// respondServiceError maps domain errors onto the error envelope.
// Anything unclassified is logged and reported as a 500.
func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, verr.Message, verr.Field)
	case errors.Is(err, ErrUnprocessable):
		httperrors.RespondUnprocessable(w, httperrors.MsgUnprocessable)
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	default:
		logger := logging.FromContext(r.Context())
		if logger.GetLevel() == zerolog.Disabled {
			logger = h.logger
		}
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("encode response failed")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodeBadRequest, "Request body too large")
			return nil, false
		}
		httperrors.RespondBadRequest(w, "Unable to read request body")
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		httperrors.RespondUnprocessable(w, "Request body is required")
		return nil, false
	}
	return body, true
}

func respondDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		httperrors.RespondValidationError(w, typeErr.Field+" has the wrong type", typeErr.Field)
		return
	}
	httperrors.RespondUnprocessable(w, "Invalid JSON payload")
}
