package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type AssignmentHandler struct {
	assignmentUseCase *usecase.AssignmentUseCase
}

func NewAssignmentHandler(assignmentUseCase *usecase.AssignmentUseCase) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentUseCase: assignmentUseCase,
	}
}

type createRequestRequest struct {
	Title         string    `json:"title" validate:"required,min=5,max=100"`
	Description   string    `json:"description" validate:"required,min=20,max=2000"`
	PaymentAmount float64   `json:"payment_amount" validate:"gte=0,lte=100000"`
	DueDate       time.Time `json:"due_date"`
	Tags          []string  `json:"tags" validate:"max=5,dive,max=30"`
}

// CreateRequest posts a help request to the assignment board
func (h *AssignmentHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.assignmentUseCase.CreateRequest(c.Request().Context(), userID, usecase.CreateRequestInput{
		Title:         req.Title,
		Description:   req.Description,
		PaymentAmount: req.PaymentAmount,
		DueDate:       req.DueDate,
		Tags:          req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

// ListRequests lists the board, newest first
func (h *AssignmentHandler) ListRequests(c echo.Context) error {
	requests, err := h.assignmentUseCase.ListRequests(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

// GetRequest returns one request
func (h *AssignmentHandler) GetRequest(c echo.Context) error {
	request, err := h.assignmentUseCase.GetRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

// GetMyRequests lists the caller's requests
func (h *AssignmentHandler) GetMyRequests(c echo.Context) error {
	userID := c.Get("uid").(string)

	requests, err := h.assignmentUseCase.ListMyRequests(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

// MarkCompleted closes a request
func (h *AssignmentHandler) MarkCompleted(c echo.Context) error {
	userID := c.Get("uid").(string)

	request, err := h.assignmentUseCase.MarkCompleted(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}
