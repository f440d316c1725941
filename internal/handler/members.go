package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// MemberHandler exposes the caller's salon members.
type MemberHandler struct {
	Members *service.MemberService
	Scope   SalonScope
	Logger  logging.Logger
}

func NewMemberHandler(members *service.MemberService, scope SalonScope, logger logging.Logger) *MemberHandler {
	return &MemberHandler{Members: members, Scope: scope, Logger: logger}
}

func (h *MemberHandler) List(c echo.Context) error {
	p, ok := pageParams(c, service.DefaultMemberLimit)
	if !ok {
		return badRequest(c, "skip and limit must be integers")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	items, err := h.Members.List(ctx, salon.ID, p)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	if items == nil {
		items = []model.Member{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MemberHandler) Get(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	m, err := h.Members.Get(ctx, salon.ID, c.Param("id"))
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MemberHandler) Create(c echo.Context) error {
	var req service.MemberInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	m, err := h.Members.Create(ctx, salon.ID, req)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Update serves both PUT and PATCH; absent fields are left unchanged.
func (h *MemberHandler) Update(c echo.Context) error {
	var patch model.MemberPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	m, err := h.Members.Update(ctx, salon.ID, c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MemberHandler) Delete(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	salon, err := salonOf(ctx, c, h.Scope)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	if err := h.Members.Delete(ctx, salon.ID, c.Param("id")); err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Member deleted successfully"})
}
