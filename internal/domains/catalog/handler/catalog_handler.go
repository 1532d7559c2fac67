package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/internal/domains/catalog/service"
	"bookworm-backend/internal/shared/response"
)

// =====================================================
// CATALOG HANDLER
// =====================================================

type CatalogHandler struct {
	catalogService service.Service
}

func NewCatalogHandler(catalogService service.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// mapCatalogError maps a catalog domain error to an HTTP status code
func mapCatalogError(err error) (int, string) {
	var catErr *model.CatalogError
	if errors.As(err, &catErr) {
		switch catErr.Code {
		case model.ErrCodeBookNotFound:
			return http.StatusNotFound, catErr.Code
		case model.ErrCodeInvalidBook, model.ErrCodeSearchQueryMissing:
			return http.StatusBadRequest, catErr.Code
		case model.ErrCodeUpstreamFailure:
			return http.StatusBadGateway, catErr.Code
		default:
			return http.StatusInternalServerError, "INTERNAL_ERROR"
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// Search proxies a query to Open Library
// GET /api/v1/books/search?q=dune
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")

	results, err := h.catalogService.Search(c.Request.Context(), query)
	if err != nil {
		statusCode, errCode := mapCatalogError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"books": results}, &response.Meta{Count: len(results)})
}

// GetDetails fetches one Open Library work record
// GET /api/v1/books/details/*key
func (h *CatalogHandler) GetDetails(c *gin.Context) {
	key := c.Param("key")

	details, err := h.catalogService.GetDetails(c.Request.Context(), key)
	if err != nil {
		statusCode, errCode := mapCatalogError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, details)
}

// AddBook adds a book to the local catalog
// POST /api/v1/books
func (h *CatalogHandler) AddBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.AddBook(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := mapCatalogError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// A dedup hit is a success, not a conflict: the caller gets the
	// canonical row either way.
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	response.Success(c, status, result.Book)
}

// ListBooks lists the local catalog, newest first
// GET /api/v1/books
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	books, err := h.catalogService.ListBooks(c.Request.Context())
	if err != nil {
		statusCode, errCode := mapCatalogError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, model.ListResponse{
		Count: len(books),
		Books: books,
	})
}

// GetBook fetches one catalog row
// GET /api/v1/books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.catalogService.GetBook(c.Request.Context(), bookID)
	if err != nil {
		statusCode, errCode := mapCatalogError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, book)
}
