package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adterminal/internal/middleware"
	"adterminal/internal/pkg/apperrors"
	"adterminal/internal/pkg/response"
)

type ManagementHandler struct {
	service *Service
}

func NewManagementHandler(service *Service) *ManagementHandler {
	return &ManagementHandler{service: service}
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ListAdmins godoc
// @Summary List admins
// @Tags Admins
// @Security BearerAuth
// @Produce json
// @Success 200 {array} AdminUser
// @Router /admins [get]
func (h *ManagementHandler) ListAdmins(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// CreateAdmin godoc
// @Summary Create admin
// @Tags Admins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateAdminRequest true "Admin credentials"
// @Success 201 {object} AdminUser
// @Failure 400 {object} map[string]interface{}
// @Router /admins [post]
func (h *ManagementHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperrors.Validation("Invalid request body"))
		return
	}

	admin, err := h.service.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// ChangePassword godoc
// @Summary Change admin password
// @Tags Admins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /admins/{id}/password [put]
func (h *ManagementHandler) ChangePassword(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperrors.Validation("Invalid request body"))
		return
	}

	admin, err := h.service.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password updated successfully", gin.H{"admin": admin})
}

// DeleteAdmin godoc
// @Summary Delete admin
// @Tags Admins
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /admins/{id} [delete]
func (h *ManagementHandler) DeleteAdmin(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.AdminID(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Admin deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
