package handler

import (
	"github.com/labstack/echo/v4"

	"campushub/internal/usecase"
	"campushub/pkg/response"
)

type LostFoundHandler struct {
	lostFoundUseCase *usecase.LostFoundUseCase
}

func NewLostFoundHandler(lostFoundUseCase *usecase.LostFoundUseCase) *LostFoundHandler {
	return &LostFoundHandler{
		lostFoundUseCase: lostFoundUseCase,
	}
}

type reportItemRequest struct {
	Type        string `json:"type" validate:"required,oneof=lost found"`
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Location    string `json:"location" validate:"required,max=200"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// ReportItem files a lost or found report
func (h *LostFoundHandler) ReportItem(c echo.Context) error {
	var req reportItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.lostFoundUseCase.ReportItem(c.Request().Context(), userID, usecase.ReportItemInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

// ListReports lists reports with optional type/status filters
func (h *LostFoundHandler) ListReports(c echo.Context) error {
	items, err := h.lostFoundUseCase.ListReports(c.Request().Context(), usecase.ListReportsInput{
		Type:   c.QueryParam("type"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

// GetReport returns one report
func (h *LostFoundHandler) GetReport(c echo.Context) error {
	item, err := h.lostFoundUseCase.GetReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

// GetMyReports lists the caller's reports
func (h *LostFoundHandler) GetMyReports(c echo.Context) error {
	userID := c.Get("uid").(string)

	items, err := h.lostFoundUseCase.ListMyReports(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

// Resolve closes a report
func (h *LostFoundHandler) Resolve(c echo.Context) error {
	userID := c.Get("uid").(string)

	item, err := h.lostFoundUseCase.Resolve(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}
