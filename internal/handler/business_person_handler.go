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

// ListBusinessPeople returns the affiliations of one business with
// the person and role rows preloaded.
func ListBusinessPeople(c echo.Context) error {
	log := logger.FromContext(c)

	businessID, err := strconv.ParseUint(c.Param("businessId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid business id"})
	}

	var business model.Business
	if err := database.GetDB().First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
		log.Error("Failed to load business", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var people []model.BusinessPerson
	err = database.GetDB().
		Where("business_id = ?", businessID).
		Preload("Person").
		Preload("Role").
		Order("id ASC").
		Find(&people).Error
	if err != nil {
		log.Error("Failed to list business people", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"businessPerson": people})
}

// StoreBusinessPerson affiliates a person to a business with a role.
// The same person cannot be affiliated twice to one business; a
// unique index backs the pre-check against concurrent inserts.
func StoreBusinessPerson(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.StoreBusinessPersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	if err := database.GetDB().First(&model.Business{}, req.BusinessID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
	}
	if err := database.GetDB().First(&model.Person{}, req.PersonID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "PersonNotFound"})
	}
	if err := database.GetDB().First(&model.Role{}, req.RoleID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
	}

	var existing int64
	database.GetDB().Model(&model.BusinessPerson{}).
		Where("business_id = ? AND person_id = ?", req.BusinessID, req.PersonID).
		Count(&existing)
	if existing > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "person already affiliated to this business"})
	}

	bp := model.BusinessPerson{
		BusinessID: req.BusinessID,
		PersonID:   req.PersonID,
		RoleID:     req.RoleID,
		Pix:        req.Pix,
		Type:       req.Type,
		Name:       req.Name,
		Bank:       req.Bank,
	}
	if req.Active != nil {
		bp.Active = *req.Active
	} else {
		bp.Active = 1
	}
	if req.Workplace != nil {
		bp.Workplace = *req.Workplace
	} else {
		bp.Workplace = model.WorkplaceOwnBusiness
	}

	if err := database.GetDB().Create(&bp).Error; err != nil {
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "person already affiliated to this business"})
		}
		log.Error("Failed to create affiliation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("business_person", "create")
	log.Info("Affiliation created",
		zap.Uint("business_id", bp.BusinessID),
		zap.Uint("person_id", bp.PersonID),
		zap.Uint("role_id", bp.RoleID))

	return c.JSON(http.StatusCreated, echo.Map{"businessPerson": bp})
}

// ShowBusinessPerson returns one affiliation by id.
func ShowBusinessPerson(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid id"})
	}

	var bp model.BusinessPerson
	err = database.GetDB().
		Preload("Person").
		Preload("Role").
		First(&bp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessPersonNotFound"})
		}
		logger.FromContext(c).Error("Failed to load affiliation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"businessPerson": bp})
}

// UpdateBusinessPerson changes an affiliation's role or payment data.
func UpdateBusinessPerson(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdateBusinessPersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var bp model.BusinessPerson
	if err := database.GetDB().First(&bp, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessPersonNotFound"})
		}
		log.Error("Failed to load affiliation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if req.RoleID != nil {
		if err := database.GetDB().First(&model.Role{}, *req.RoleID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
		}
	}

	updates := map[string]interface{}{}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.Pix != nil {
		updates["pix"] = *req.Pix
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bank != nil {
		updates["bank"] = *req.Bank
	}
	if req.Workplace != nil {
		updates["workplace"] = *req.Workplace
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&bp).Updates(updates).Error; err != nil {
			log.Error("Failed to update affiliation", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
		}
	}

	prometheus.RecordEntityOperation("business_person", "update")
	return c.JSON(http.StatusOK, echo.Map{"businessPerson": bp})
}

// DestroyBusinessPerson removes an affiliation by id.
func DestroyBusinessPerson(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid id"})
	}

	var bp model.BusinessPerson
	if err := database.GetDB().First(&bp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessPersonNotFound"})
		}
		log.Error("Failed to load affiliation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if err := database.GetDB().Delete(&bp).Error; err != nil {
		log.Error("Failed to delete affiliation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("business_person", "delete")
	return c.JSON(http.StatusOK, echo.Map{"msg": "Afiliación eliminada correctamente."})
}
