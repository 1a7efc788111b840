package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"campushub/internal/infrastructure/firebase"
	"campushub/internal/usecase"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/response"
	"campushub/pkg/utils"
)

type MarketHandler struct {
	marketUseCase *usecase.MarketUseCase
	authClient    *firebase.FirebaseAuthClient
}

func NewMarketHandler(marketUseCase *usecase.MarketUseCase, authClient *firebase.FirebaseAuthClient) *MarketHandler {
	return &MarketHandler{
		marketUseCase: marketUseCase,
		authClient:    authClient,
	}
}

type createListingRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10,max=1000"`
	Category    string  `json:"category" validate:"required,oneof=books electronics cycle other"`
	Price       float64 `json:"price" validate:"required,gte=1,lte=100000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// CreateListing creates a marketplace listing
func (h *MarketHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.marketUseCase.CreateListing(c.Request().Context(), userID, usecase.CreateListingInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

// ListListings lists marketplace items with optional category/status
// filters
func (h *MarketHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.marketUseCase.ListListings(c.Request().Context(), usecase.ListListingsInput{
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Limit:    pagination.PageSize,
		Offset:   pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

// GetListing returns one listing
func (h *MarketHandler) GetListing(c echo.Context) error {
	item, err := h.marketUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

// GetMyListings lists the caller's listings
func (h *MarketHandler) GetMyListings(c echo.Context) error {
	userID := c.Get("uid").(string)

	items, err := h.marketUseCase.ListMyListings(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

// MarkSold marks a listing sold
func (h *MarketHandler) MarkSold(c echo.Context) error {
	userID := c.Get("uid").(string)

	item, err := h.marketUseCase.MarkSold(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

// UploadImage stores a listing image and returns its URL
func (h *MarketHandler) UploadImage(c echo.Context) error {
	userID := c.Get("uid").(string)

	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, apperrors.BadRequest("Missing image file", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, apperrors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	url, err := h.marketUseCase.UploadImage(c.Request().Context(), userID, src, file.Header.Get("Content-Type"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"image_url": url})
}

// The delete endpoint keeps the callable wire contract its clients
// already speak: fixed error codes, argument check before any backend
// read, and a bare {success, message} result.

type deleteItemRequest struct {
	ItemID   string `json:"itemId"`
	ImageURL string `json:"imageUrl"`
}

type callableError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func callableErrorResponse(c echo.Context, httpStatus int, code, message string) error {
	body := callableError{}
	body.Error.Code = code
	body.Error.Message = message
	return c.JSON(httpStatus, body)
}

// DeleteMarketItem implements POST /v1/functions/deleteMarketItem
func (h *MarketHandler) DeleteMarketItem(c echo.Context) error {
	// The endpoint authenticates on its own so a missing token maps to
	// the callable "unauthenticated" code instead of the API envelope.
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" {
		return callableErrorResponse(c, http.StatusUnauthorized, "unauthenticated", "You must be logged in to delete an item.")
	}

	userID, err := h.authClient.VerifyToken(c.Request().Context(), parts[1])
	if err != nil {
		return callableErrorResponse(c, http.StatusUnauthorized, "unauthenticated", "You must be logged in to delete an item.")
	}

	var req deleteItemRequest
	if err := c.Bind(&req); err != nil {
		return callableErrorResponse(c, http.StatusBadRequest, "invalid-argument", "Missing itemId or imageUrl.")
	}
	if req.ItemID == "" || req.ImageURL == "" {
		return callableErrorResponse(c, http.StatusBadRequest, "invalid-argument", "Missing itemId or imageUrl.")
	}

	if err := h.marketUseCase.DeleteItem(c.Request().Context(), userID, req.ItemID, req.ImageURL); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrForbidden):
			return callableErrorResponse(c, http.StatusForbidden, "permission-denied", "You are not authorized to delete this item.")
		case apperrors.Is(err, apperrors.ErrBadRequest):
			return callableErrorResponse(c, http.StatusBadRequest, "invalid-argument", "Missing itemId or imageUrl.")
		default:
			return callableErrorResponse(c, http.StatusInternalServerError, "internal", "An error occurred while deleting the item.")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item deleted successfully.",
	})
}
