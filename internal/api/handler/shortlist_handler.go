package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// ShortlistHandler handles profile bookmarks.
type ShortlistHandler struct {
	service ports.ShortlistService
}

func NewShortlistHandler(service ports.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{service: service}
}

type shortlistResponse struct {
	Items []biodataSummaryResponse `json:"items"`
}

// Add handles POST /v1/shortlist/:number.
//
// @Summary      Shortlist a biodata
// @Tags         shortlist
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string  true  "Biodata number"
// @Success      204
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/shortlist/{number} [post]
func (h *ShortlistHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Add(c.Request().Context(), userID, c.Param("number")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/shortlist/:number.
//
// @Summary      Remove a biodata from the shortlist
// @Tags         shortlist
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string  true  "Biodata number"
// @Success      204
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/shortlist/{number} [delete]
func (h *ShortlistHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), userID, c.Param("number")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/shortlist.
//
// @Summary      List the caller's shortlisted biodatas
// @Tags         shortlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  shortlistResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/shortlist [get]
func (h *ShortlistHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	items := make([]biodataSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, toSummaryResponse(s))
	}
	return c.JSON(http.StatusOK, shortlistResponse{Items: items})
}
