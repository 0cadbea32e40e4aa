package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biyeshadi/matrimony-system/internal/api/metrics"
	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// MembershipHandler exposes the caller's connection budget and the purchase
// endpoint.
type MembershipHandler struct {
	service ports.MembershipService
}

func NewMembershipHandler(service ports.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

type purchaseRequest struct {
	Tier string `json:"tier" validate:"required,oneof=silver gold"`
}

type membershipResponse struct {
	Tier             string     `json:"tier"`
	Status           string     `json:"status"`
	CreditsRemaining int        `json:"credits_remaining"`
	CreditsTotal     int        `json:"credits_total"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// GetCurrent handles GET /v1/memberships/me.
//
// @Summary      Get the caller's current membership
// @Description  Expiry is applied lazily here: a lapsed paid membership flips to expired on read.
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  membershipResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/memberships/me [get]
func (h *MembershipHandler) GetCurrent(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	m, err := h.service.GetCurrent(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNoMembership
	}

	return c.JSON(http.StatusOK, membershipResponse{
		Tier:             string(m.Tier),
		Status:           string(m.Status),
		CreditsRemaining: m.CreditsRemaining,
		CreditsTotal:     m.CreditsTotal,
		ExpiresAt:        m.ExpiresAt,
	})
}

// Purchase handles POST /v1/memberships/purchase.
//
// @Summary      Purchase or upgrade a membership
// @Description  Unused credits carry over; the expiry window restarts from the purchase time.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Tier to purchase"
// @Success      200   {object}  membershipResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/memberships/purchase [post]
func (h *MembershipHandler) Purchase(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.Purchase(c.Request().Context(), userID, domain.Tier(req.Tier))
	if err != nil {
		return err
	}

	metrics.MembershipPurchasesTotal.WithLabelValues(string(result.Tier)).Inc()
	return c.JSON(http.StatusOK, membershipResponse{
		Tier:             string(result.Tier),
		Status:           string(domain.MembershipActive),
		CreditsRemaining: result.CreditsRemaining,
		CreditsTotal:     result.CreditsTotal,
		ExpiresAt:        result.ExpiresAt,
	})
}
