package ad

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"adterminal/internal/pkg/apperrors"
	"adterminal/internal/pkg/response"
)

const maxMultipartMemory = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List ads
// @Description All ads regardless of visibility, newest first
// @Tags Ads
// @Security BearerAuth
// @Produce json
// @Success 200 {array} Ad
// @Router /ads [get]
func (h *Handler) List(c *gin.Context) {
	ads, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ads)
}

// Get godoc
// @Summary Get ad
// @Tags Ads
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ad ID"
// @Success 200 {object} Ad
// @Failure 404 {object} map[string]interface{}
// @Router /ads/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Create godoc
// @Summary Create ad
// @Tags Ads
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} Ad
// @Failure 400 {object} map[string]interface{}
// @Router /ads [post]
func (h *Handler) Create(c *gin.Context) {
	var (
		fields Fields
		image  *multipart.FileHeader
		err    error
	)

	if isMultipart(c) {
		fields, image, err = fieldsFromForm(c)
	} else {
		fields = Fields{TimeframeDays: DefaultTimeframeDays, IsActive: true}
		if bindErr := c.ShouldBindJSON(&fields); bindErr != nil {
			err = apperrors.Validation("Invalid request body")
		}
	}
	if err != nil {
		response.Fail(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), fields, image)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Update godoc
// @Summary Update ad
// @Description Multipart bodies replace every field; JSON bodies are partial.
// @Description A JSON body without timeframe_days leaves a legacy negative timeframe untouched.
// @Tags Ads
// @Security BearerAuth
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path int true "Ad ID"
// @Success 200 {object} Ad
// @Router /ads/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var (
		patch Patch
		image *multipart.FileHeader
	)
	if isMultipart(c) {
		var fields Fields
		fields, image, err = fieldsFromForm(c)
		if err == nil {
			patch = fields.asPatch()
			if formBool(c.PostForm("remove_image")) {
				patch.RemoveImage = true
			}
		}
	} else if bindErr := c.ShouldBindJSON(&patch); bindErr != nil {
		err = apperrors.Validation("Invalid request body")
	}
	if err != nil {
		response.Fail(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, patch, image)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete godoc
// @Summary Delete ad
// @Tags Ads
// @Security BearerAuth
// @Param id path int true "Ad ID"
// @Success 200 {object} map[string]interface{}
// @Router /ads/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Ad deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// fieldsFromForm reads a dashboard form submission. An unchecked is_active
// checkbox is simply absent, so a missing value means inactive.
func fieldsFromForm(c *gin.Context) (Fields, *multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return Fields{}, nil, apperrors.Validation("Invalid multipart form")
	}

	f := Fields{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		CTAURL:        c.PostForm("cta_url"),
		Category:      c.PostForm("category"),
		TimeframeDays: DefaultTimeframeDays,
		IsActive:      formBool(c.PostForm("is_active")),
	}
	if raw := strings.TrimSpace(c.PostForm("timeframe_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return Fields{}, nil, apperrors.Validation("timeframe_days must be a whole number")
		}
		f.TimeframeDays = days
	}

	image, err := c.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			return Fields{}, nil, apperrors.Validation("Invalid image upload")
		}
		image = nil
	}
	return f, image, nil
}

func formBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "on" || v == "1" || Truthy(v)
}

func (f Fields) asPatch() Patch {
	return Patch{
		Title:         &f.Title,
		Description:   &f.Description,
		CTAURL:        &f.CTAURL,
		Category:      &f.Category,
		TimeframeDays: &f.TimeframeDays,
		IsActive:      &f.IsActive,
	}
}
