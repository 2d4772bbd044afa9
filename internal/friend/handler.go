package friend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamadalm/divvy/pkg/middleware"
	"github.com/hamadalm/divvy/pkg/response"
	"github.com/hamadalm/divvy/pkg/validate"
)

// Handler handles HTTP requests for friendship operations
type Handler struct {
	service *Service
}

// NewHandler creates a new friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friendship endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.SendRequest)
	r.Get("/", h.List)
	r.Post("/{id}/accept", h.Accept)
	r.Delete("/{id}", h.Remove)

	return r
}

// SendRequest handles POST /friends
// @Summary      Send a friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Param        request body SendRequestRequest true "Friend request"
// @Success      201 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /friends [post]
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	friendship, err := h.service.SendRequest(r.Context(), userID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotFriendSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadyFriends):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to send friend request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, friendship.ToResponse())
}

// List handles GET /friends
// @Summary      List friendships
// @Description  List the authenticated user's friendships, optionally filtered by status
// @Tags         friends
// @Produce      json
// @Param        status query string false "Filter by status" Enums(PENDING, ACCEPTED)
// @Success      200 {object} response.APIResponse{data=[]FriendshipResponse}
// @Security     BearerAuth
// @Router       /friends [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var status *FriendshipStatus
	if s := r.URL.Query().Get("status"); s != "" {
		fs := FriendshipStatus(s)
		if fs != FriendshipStatusPending && fs != FriendshipStatusAccepted {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		status = &fs
	}

	friendships, err := h.service.List(r.Context(), userID, status)
	if err != nil {
		response.InternalError(w, "Failed to list friendships")
		return
	}

	resp := make([]*FriendshipResponse, len(friendships))
	for i, f := range friendships {
		resp[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// Accept handles POST /friends/{id}/accept
// @Summary      Accept a friend request
// @Tags         friends
// @Produce      json
// @Param        id path int true "Friendship ID"
// @Success      200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /friends/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	friendship, err := h.service.Accept(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFriendshipNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAddressee):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyAccepted):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to accept friend request")
		}
		return
	}

	response.JSON(w, http.StatusOK, friendship.ToResponse())
}

// Remove handles DELETE /friends/{id}
// @Summary      Remove a friendship
// @Tags         friends
// @Param        id path int true "Friendship ID"
// @Success      204 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /friends/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	if err := h.service.Remove(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrFriendshipNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to remove friendship")
		}
		return
	}

	response.JSON(w, http.StatusNoContent, nil)
}
