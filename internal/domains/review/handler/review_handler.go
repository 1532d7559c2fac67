package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookworm-backend/internal/domains/review/model"
	"bookworm-backend/internal/domains/review/service"
	"bookworm-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.Service
}

func NewReviewHandler(reviewService service.Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func getUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// mapReviewError maps a review domain error to an HTTP status code
func mapReviewError(err error) (int, string) {
	var revErr *model.ReviewError
	if errors.As(err, &revErr) {
		switch revErr.Code {
		case model.ErrCodeReviewNotFound, model.ErrCodeBookNotFound:
			return http.StatusNotFound, revErr.Code
		case model.ErrCodeInvalidRating:
			return http.StatusBadRequest, revErr.Code
		default:
			return http.StatusInternalServerError, "INTERNAL_ERROR"
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// UpsertReview creates or replaces the caller's review for a book
// POST /api/v1/reviews
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviewService.UpsertReview(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	response.Success(c, status, result.Review)
}

// DeleteReview removes the caller's review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// GetUserBookReview fetches one user's review of one book
// GET /api/v1/reviews/user/:userId/book/:bookId
func (h *ReviewHandler) GetUserBookReview(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	review, err := h.reviewService.GetUserBookReview(c.Request.Context(), userID, bookID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, review)
}

// ListBookReviews lists all reviews of a book, newest first
// GET /api/v1/reviews/book/:bookId
func (h *ReviewHandler) ListBookReviews(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	reviews, err := h.reviewService.ListBookReviews(c.Request.Context(), bookID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"reviews": reviews}, &response.Meta{Count: len(reviews)})
}

// ListUserReviews lists all reviews by a user, newest first
// GET /api/v1/reviews/user/:userId
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	reviews, err := h.reviewService.ListUserReviews(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"reviews": reviews}, &response.Meta{Count: len(reviews)})
}
