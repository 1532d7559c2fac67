package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookworm-backend/internal/domains/library/model"
	"bookworm-backend/internal/domains/library/service"
	"bookworm-backend/internal/shared/response"
)

// =====================================================
// LIBRARY HANDLER
// =====================================================

type LibraryHandler struct {
	libraryService service.Service
}

func NewLibraryHandler(libraryService service.Service) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
	}
}

// getUserID extracts the authenticated user ID set by the auth middleware
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// mapLibraryError maps a library domain error to an HTTP status code
func mapLibraryError(err error) (int, string) {
	var libErr *model.LibraryError
	if errors.As(err, &libErr) {
		switch libErr.Code {
		case model.ErrCodeEntryNotFound, model.ErrCodeBookNotFound:
			return http.StatusNotFound, libErr.Code
		case model.ErrCodeAlreadyInLibrary:
			return http.StatusConflict, libErr.Code
		case model.ErrCodeInvalidStatus, model.ErrCodeInvalidProgress:
			return http.StatusBadRequest, libErr.Code
		default:
			return http.StatusInternalServerError, "INTERNAL_ERROR"
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// AddToLibrary adds a catalog book to the caller's library
// POST /api/v1/library
func (h *LibraryHandler) AddToLibrary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.AddToLibrary(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// UpdateEntry partially updates an entry (status, progress, file reference)
// PUT /api/v1/library/:id
func (h *LibraryHandler) UpdateEntry(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid library entry ID")
		return
	}

	var req model.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.UpdateEntry(c.Request.Context(), userID, entryID, req)
	if err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// UpdateProgress updates progress from a reader page position
// PUT /api/v1/library/:id/progress
func (h *LibraryHandler) UpdateProgress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid library entry ID")
		return
	}

	var req model.PageProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.libraryService.UpdateProgressByPage(c.Request.Context(), userID, entryID, req)
	if err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// RemoveFromLibrary permanently removes an entry
// DELETE /api/v1/library/:id
func (h *LibraryHandler) RemoveFromLibrary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid library entry ID")
		return
	}

	if err := h.libraryService.RemoveFromLibrary(c.Request.Context(), userID, entryID); err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Book removed from library",
	})
}

// ListLibrary lists the caller's library, optionally filtered by status
// GET /api/v1/library?status=reading
func (h *LibraryHandler) ListLibrary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var statusFilter *string
	if status := c.Query("status"); status != "" {
		statusFilter = &status
	}

	entries, err := h.libraryService.ListLibrary(c.Request.Context(), userID, statusFilter)
	if err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.ListResponse{
		Count:   len(entries),
		Library: entries,
	})
}

// GetStats returns the caller's reading statistics
// GET /api/v1/library/stats
func (h *LibraryHandler) GetStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	stats, err := h.libraryService.GetStats(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapLibraryError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, stats)
}
