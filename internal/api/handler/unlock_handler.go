package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biyeshadi/matrimony-system/internal/api/metrics"
	"github.com/biyeshadi/matrimony-system/internal/core/domain"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// UnlockHandler handles the paid-access endpoints: the free can-view probe
// and the charging unlock calls for the biodata and contact sections.
type UnlockHandler struct {
	service ports.UnlockService
}

func NewUnlockHandler(service ports.UnlockService) *UnlockHandler {
	return &UnlockHandler{service: service}
}

type canViewResponse struct {
	CanView   bool   `json:"can_view"`
	CanUnlock bool   `json:"can_unlock"`
	Unlocked  bool   `json:"unlocked"`
	Reason    string `json:"reason"`
	Remaining *int   `json:"credits_remaining,omitempty"`
}

type unlockResponse struct {
	Granted   bool                  `json:"granted"`
	Charged   bool                  `json:"charged"`
	Reason    string                `json:"reason"`
	Remaining *int                  `json:"credits_remaining,omitempty"`
	Gated     *domain.GatedProfile  `json:"gated,omitempty"`
	Contact   *domain.ContactInfo   `json:"contact,omitempty"`
}

// unlockDeniedResponse is the 402 envelope for business denials. It is not an
// error: the request was understood and evaluated, the answer is "not with
// your current membership".
type unlockDeniedResponse struct {
	Granted         bool   `json:"granted"`
	Reason          string `json:"reason"`
	NeedsMembership bool   `json:"needs_membership"`
	Remaining       *int   `json:"credits_remaining,omitempty"`
}

// CanView handles GET /v1/biodatas/:number/can-view.
//
// @Summary      Probe view entitlement without charging
// @Tags         unlocks
// @Produce      json
// @Param        number  path      string  true   "Biodata number"
// @Param        kind    query     string  false  "Grant kind: biodata (default) or contact"
// @Success      200     {object}  canViewResponse
// @Failure      404     {object}  map[string]string
// @Router       /v1/biodatas/{number}/can-view [get]
func (h *UnlockHandler) CanView(c echo.Context) error {
	kind, err := grantKindParam(c)
	if err != nil {
		return err
	}

	decision, err := h.service.CanView(c.Request().Context(), ctxViewerID(c), c.Param("number"), kind)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, canViewResponse{
		CanView:   decision.CanView,
		CanUnlock: decision.CanUnlock,
		Unlocked:  decision.Unlocked,
		Reason:    string(decision.Reason),
		Remaining: decision.Remaining,
	})
}

// Unlock handles POST /v1/biodatas/:number/unlock.
//
// @Summary      Unlock the gated biodata section
// @Description  Charges one connection credit on first unlock; repeats are free and return the same content.
// @Tags         unlocks
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Biodata number"
// @Success      200     {object}  unlockResponse
// @Failure      401     {object}  map[string]string
// @Failure      402     {object}  unlockDeniedResponse
// @Failure      404     {object}  map[string]string
// @Router       /v1/biodatas/{number}/unlock [post]
func (h *UnlockHandler) Unlock(c echo.Context) error {
	return h.unlock(c, domain.GrantBiodata)
}

// UnlockContact handles POST /v1/biodatas/:number/unlock-contact.
//
// @Summary      Unlock the guardian contact section
// @Description  Contact release is a separate grant billed independently; requires a paid tier.
// @Tags         unlocks
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Biodata number"
// @Success      200     {object}  unlockResponse
// @Failure      401     {object}  map[string]string
// @Failure      402     {object}  unlockDeniedResponse
// @Failure      404     {object}  map[string]string
// @Router       /v1/biodatas/{number}/unlock-contact [post]
func (h *UnlockHandler) UnlockContact(c echo.Context) error {
	return h.unlock(c, domain.GrantContact)
}

func (h *UnlockHandler) unlock(c echo.Context, kind domain.GrantKind) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.Unlock(c.Request().Context(), userID, c.Param("number"), kind)
	if err != nil {
		return err
	}

	if !result.Granted {
		metrics.UnlockDeniedTotal.WithLabelValues(string(result.Reason)).Inc()
		return c.JSON(http.StatusPaymentRequired, unlockDeniedResponse{
			Granted:         false,
			Reason:          string(result.Reason),
			NeedsMembership: result.Reason.NeedsMembership(),
			Remaining:       result.Remaining,
		})
	}

	metrics.UnlocksTotal.WithLabelValues(string(kind), strconv.FormatBool(result.Charged)).Inc()
	if result.Charged {
		metrics.CreditsSpentTotal.Inc()
	}

	return c.JSON(http.StatusOK, unlockResponse{
		Granted:   true,
		Charged:   result.Charged,
		Reason:    string(result.Reason),
		Remaining: result.Remaining,
		Gated:     result.Gated,
		Contact:   result.Contact,
	})
}

func grantKindParam(c echo.Context) (domain.GrantKind, error) {
	switch c.QueryParam("kind") {
	case "", "biodata":
		return domain.GrantBiodata, nil
	case "contact":
		return domain.GrantContact, nil
	default:
		return "", echo.NewHTTPError(http.StatusBadRequest, "kind must be biodata or contact")
	}
}
