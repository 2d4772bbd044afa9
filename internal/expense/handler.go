package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamadalm/divvy/internal/expense/split"
	"github.com/hamadalm/divvy/pkg/middleware"
	"github.com/hamadalm/divvy/pkg/response"
	"github.com/hamadalm/divvy/pkg/validate"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	// Comments and edit history
	r.Post("/{id}/comments", h.AddComment)
	r.Get("/{id}/comments", h.ListComments)
	r.Delete("/comments/{commentId}", h.DeleteComment)
	r.Get("/{id}/history", h.ListRevisions)

	return r
}

func detailResponse(detail *ExpenseDetail) *ExpenseResponse {
	resp := detail.Expense.ToResponse()
	resp.Splits = make([]*ShareResponse, len(detail.Splits))
	for i, s := range detail.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	resp.Payments = make([]*ShareResponse, len(detail.Payments))
	for i, p := range detail.Payments {
		resp.Payments[i] = p.ToResponse()
	}
	return resp
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense; splits and payments are materialized from the chosen modes and validated before persistence
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	detail, err := h.service.CreateExpense(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create expense")
		return
	}

	response.JSON(w, http.StatusCreated, detailResponse(detail))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense with its splits and payments
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	detail, err := h.service.GetExpenseByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, detailResponse(detail))
}

// Update handles PUT /expenses/{id}
// @Summary      Update an expense
// @Description  Fully replaces the expense's fields, splits and payments; the previous state is kept in the edit history
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	detail, err := h.service.UpdateExpense(r.Context(), id, userID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update expense")
		return
	}

	response.JSON(w, http.StatusOK, detailResponse(detail))
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List a group's expenses
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Security     BearerAuth
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	expenses, total, err := h.service.ListExpensesByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Tags         expenses
// @Param        id path int true "Expense ID"
// @Success      204 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		h.writeServiceError(w, err, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusNoContent, nil)
}

// AddComment handles POST /expenses/{id}/comments
// @Summary      Comment on an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body AddCommentRequest true "Comment request"
// @Success      201 {object} response.APIResponse{data=CommentResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/comments [post]
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	comment, err := h.service.AddComment(r.Context(), id, userID, req.Body)
	if err != nil {
		h.writeServiceError(w, err, "Failed to add comment")
		return
	}

	response.JSON(w, http.StatusCreated, comment.ToResponse())
}

// ListComments handles GET /expenses/{id}/comments
// @Summary      List an expense's comments
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=[]CommentResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	comments, err := h.service.ListComments(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list comments")
		return
	}

	resp := make([]*CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = c.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// DeleteComment handles DELETE /expenses/comments/{commentId}
// @Summary      Delete a comment
// @Tags         expenses
// @Param        commentId path int true "Comment ID"
// @Success      204 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/comments/{commentId} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.service.DeleteComment(r.Context(), commentID, userID); err != nil {
		h.writeServiceError(w, err, "Failed to delete comment")
		return
	}

	response.JSON(w, http.StatusNoContent, nil)
}

// ListRevisions handles GET /expenses/{id}/history
// @Summary      List an expense's edit history
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=[]RevisionResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/history [get]
func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	revisions, err := h.service.ListRevisions(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list history")
		return
	}

	resp := make([]*RevisionResponse, len(revisions))
	for i, rev := range revisions {
		resp[i] = rev.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// writeServiceError maps expense service errors onto HTTP responses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrExpenseNotFound), errors.Is(err, ErrCommentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCreator), errors.Is(err, ErrNotCommentAuthor):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidSplits),
		errors.Is(err, ErrInvalidPayments),
		errors.Is(err, ErrDuplicateParticipant),
		errors.Is(err, split.ErrUnknownSplitMode),
		errors.Is(err, split.ErrUnknownPaymentMode):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
