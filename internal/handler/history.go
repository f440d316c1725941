package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// HistoryHandler exposes synthesis history rows visible to the caller's salon.
type HistoryHandler struct {
	History *service.HistoryService
	Scope   SalonScope
	Logger  logging.Logger
}

func NewHistoryHandler(history *service.HistoryService, scope SalonScope, logger logging.Logger) *HistoryHandler {
	return &HistoryHandler{History: history, Scope: scope, Logger: logger}
}

func (h *HistoryHandler) List(c echo.Context) error {
	p, ok := pageParams(c, service.DefaultHistoryLimit)
	if !ok {
		return badRequest(c, "skip and limit must be integers")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	items, err := h.History.List(ctx, salon.ID, p)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	if items == nil {
		items = []model.SynthesisHistory{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *HistoryHandler) Get(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	row, err := h.History.Get(ctx, salon.ID, c.Param("id"))
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *HistoryHandler) Create(c echo.Context) error {
	var req service.HistoryInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	row, err := h.History.Create(ctx, salon, req)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *HistoryHandler) Update(c echo.Context) error {
	var patch model.HistoryPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	row, err := h.History.Update(ctx, salon.ID, c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *HistoryHandler) Delete(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	if err := h.History.Delete(ctx, salon.ID, c.Param("id")); err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Synthesis history deleted successfully"})
}
