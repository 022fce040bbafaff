package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/internal/validation"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// ListRoles returns every role, system and custom alike.
func ListRoles(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var roles []model.Role
	if err := database.GetDB().Order("id ASC").Find(&roles).Error; err != nil {
		log.Error("Failed to list roles", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"roles": roles})
}

// GetRolesByType returns the roles of one type, e.g. "Sistema".
func GetRolesByType(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.RoleTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var roles []model.Role
	if err := database.GetDB().Where("type = ?", req.Type).Order("id ASC").Find(&roles).Error; err != nil {
		log.Error("Failed to list roles by type", zap.Error(err), zap.String("type", req.Type))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"roles": roles})
}

// StoreRole creates a role with a unique name.
func StoreRole(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.StoreRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	role := model.Role{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	}
	if role.Type == "" {
		role.Type = model.RoleTypeSystem
	}

	if err := database.GetDB().Create(&role).Error; err != nil {
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "role name already exists"})
		}
		log.Error("Failed to create role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("role", "create")
	log.Info("Role created", zap.Uint("role_id", role.ID), zap.String("name", role.Name))

	return c.JSON(http.StatusCreated, echo.Map{"role": role})
}

// ShowRole returns one role by id.
func ShowRole(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid role id"})
	}

	var role model.Role
	if err := database.GetDB().First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
		}
		logger.FromContext(c).Error("Failed to load role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"role": role})
}

// UpdateRole changes a role's name, description or type.
func UpdateRole(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var role model.Role
	if err := database.GetDB().First(&role, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
		}
		log.Error("Failed to load role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&role).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "role name already exists"})
			}
			log.Error("Failed to update role", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
		}
	}

	prometheus.RecordEntityOperation("role", "update")
	return c.JSON(http.StatusOK, echo.Map{"role": role})
}

// DestroyRole deletes a role by id.
func DestroyRole(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid role id"})
	}

	var role model.Role
	if err := database.GetDB().First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
		}
		log.Error("Failed to load role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if err := database.GetDB().Delete(&role).Error; err != nil {
		log.Error("Failed to delete role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("role", "delete")
	log.Info("Role deleted", zap.Uint("role_id", role.ID))

	return c.JSON(http.StatusOK, echo.Map{"msg": "Rol eliminado correctamente."})
}
