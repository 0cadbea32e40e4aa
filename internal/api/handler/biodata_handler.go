package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biyeshadi/matrimony-system/internal/api/metrics"
	"github.com/biyeshadi/matrimony-system/internal/core/ports"
)

// BiodataHandler handles HTTP requests for profile operations.
type BiodataHandler struct {
	service ports.BiodataService
}

func NewBiodataHandler(service ports.BiodataService) *BiodataHandler {
	return &BiodataHandler{service: service}
}

// Browse handles GET /v1/biodatas.
//
// @Summary      Browse biodatas
// @Description  Lists public profile summaries. Works for anonymous and logged-in callers alike.
// @Tags         biodatas
// @Produce      json
// @Param        kind             query     string  false  "groom or bride"
// @Param        district         query     string  false  "District filter"
// @Param        marital_status   query     string  false  "Marital status filter"
// @Param        birth_year_from  query     int     false  "Minimum birth year"
// @Param        birth_year_to    query     int     false  "Maximum birth year"
// @Param        page             query     int     false  "1-based page number"
// @Param        limit            query     int     false  "Rows per page (max 50)"
// @Success      200              {object}  browseResponse
// @Failure      500              {object}  map[string]string
// @Router       /v1/biodatas [get]
func (h *BiodataHandler) Browse(c echo.Context) error {
	filter := ports.BrowseFilter{
		Kind:          c.QueryParam("kind"),
		District:      c.QueryParam("district"),
		MaritalStatus: c.QueryParam("marital_status"),
	}
	filter.BirthYearFrom, _ = strconv.Atoi(c.QueryParam("birth_year_from"))
	filter.BirthYearTo, _ = strconv.Atoi(c.QueryParam("birth_year_to"))
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.Browse(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]biodataSummaryResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toSummaryResponse(s))
	}

	return c.JSON(http.StatusOK, browseResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /v1/biodatas/:number.
//
// @Summary      Get a biodata by number
// @Description  Returns the profile redacted for the caller: gated and contact sections appear only for the owner or a grant holder.
// @Tags         biodatas
// @Produce      json
// @Param        number  path      string  true  "Biodata number (e.g. BD-0A1B2C3D)"
// @Success      200     {object}  profileResponse
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /v1/biodatas/{number} [get]
func (h *BiodataHandler) Get(c echo.Context) error {
	number := c.Param("number")
	viewerID := ctxViewerID(c)

	view, err := h.service.GetProfile(c.Request().Context(), viewerID, number)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Number:    view.Number,
		Public:    view.Public,
		Gated:     view.Gated,
		Contact:   view.Contact,
		IsOwner:   view.IsOwner,
		Unlocked:  view.Unlocked,
		Reason:    string(view.Reason),
		CreatedAt: view.CreatedAt,
		Links: biodataLinks{
			Self:    "/v1/biodatas/" + view.Number,
			CanView: "/v1/biodatas/" + view.Number + "/can-view",
		},
	})
}

// Create handles POST /v1/biodatas.
//
// @Summary      Create the caller's biodata
// @Tags         biodatas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upsertBiodataRequest  true  "Profile sections"
// @Success      201   {object}  domain.Biodata
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/biodatas [post]
func (h *BiodataHandler) Create(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req upsertBiodataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	b, err := h.service.Create(c.Request().Context(), req.toInput(ownerID))
	if err != nil {
		return err
	}

	metrics.BiodatasCreatedTotal.WithLabelValues(string(b.Public.Kind)).Inc()
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /v1/biodatas/me.
//
// @Summary      Update the caller's biodata
// @Tags         biodatas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upsertBiodataRequest  true  "Profile sections"
// @Success      200   {object}  domain.Biodata
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/biodatas/me [put]
func (h *BiodataHandler) Update(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req upsertBiodataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	b, err := h.service.UpdateOwn(c.Request().Context(), req.toInput(ownerID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, b)
}

// GetOwn handles GET /v1/biodatas/me.
//
// @Summary      Get the caller's own biodata with view stats
// @Tags         biodatas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ownBiodataResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/biodatas/me [get]
func (h *BiodataHandler) GetOwn(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.service.GetOwn(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ownBiodataResponse{
		Biodata:    stats.Biodata,
		ViewsToday: stats.ViewsToday,
	})
}

// UploadPhoto handles POST /v1/biodatas/me/photo.
//
// @Summary      Upload a profile photo
// @Description  Pushes the image to the external host and stores the returned public URL on the caller's biodata.
// @Tags         biodatas
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photo  formData  file  true  "Image file"
// @Success      200    {object}  photoUploadResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /v1/biodatas/me/photo [post]
func (h *BiodataHandler) UploadPhoto(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing photo file"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable photo file"})
	}
	defer src.Close()

	url, err := h.service.UploadPhoto(c.Request().Context(), ownerID, fh.Filename, src)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, photoUploadResponse{PhotoURL: url})
}
