package task

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. Every method receives
// the caller's verified user id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest represents the task update request body.
// Omitted fields keep their current value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// TaskResponse represents a task in API responses.
// LegacyID mirrors ID for the bundled web client.
type TaskResponse struct {
	ID          int64     `json:"id"`
	LegacyID    int64     `json:"_id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		LegacyID:    t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

// List handles listing the caller's tasks
// @Summary      List tasks
// @Description  Return every task owned by the authenticated user, oldest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} TaskResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /api/tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request, userID int64) {
	logger := logging.GetLoggerFromContext(r.Context())

	tasks, err := h.service.List(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list tasks", "user_id", userID, "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toResponse(&tasks[i]))
	}
	httputil.RespondJSON(w, resp, http.StatusOK)
}

// Create handles task creation
// @Summary      Create a task
// @Description  Create a task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTaskRequest true "Task fields"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing title"
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /api/tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, userID int64) {
	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"user_id": userID})

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		logger.Warn("task creation failed", "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	logger.Info("task created", "task_id", t.ID)
	httputil.RespondJSON(w, toResponse(t), http.StatusCreated)
}

// Update handles partial task updates
// @Summary      Update a task
// @Description  Overwrite the supplied fields of a task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /api/tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, userID int64) {
	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"user_id": userID})

	taskID, ok := parseTaskID(r)
	if !ok {
		httputil.RespondError(w, ErrNotFound)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Update(r.Context(), userID, taskID, Patch{Title: req.Title, Description: req.Description})
	if err != nil {
		logger.Warn("task update failed", "task_id", taskID, "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	logger.Info("task updated", "task_id", t.ID)
	httputil.RespondJSON(w, toResponse(t), http.StatusOK)
}

// Delete handles task removal
// @Summary      Delete a task
// @Description  Remove a task owned by the authenticated user
// @Tags         tasks
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /api/tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, userID int64) {
	logger := logging.GetLoggerFromContext(r.Context()).WithFields(map[string]any{"user_id": userID})

	taskID, ok := parseTaskID(r)
	if !ok {
		httputil.RespondError(w, ErrNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		logger.Warn("task deletion failed", "task_id", taskID, "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	logger.Info("task deleted", "task_id", taskID)
	httputil.RespondNoContent(w)
}

// parseTaskID reads the {id} URL parameter. Malformed ids cannot name a task.
func parseTaskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
