package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jimmbo89/api-sweetspot/internal/middleware"
	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/internal/validation"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/imagestore"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// ListBusinesses returns the caller's businesses with their children.
func ListBusinesses(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var businesses []model.Business
	err := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Preload("Children").
		Order("id ASC").
		Find(&businesses).Error
	if err != nil {
		log.Error("Failed to list businesses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"business": businesses})
}

// StoreBusiness creates a business owned by the caller. A parent_id,
// when given, must reference an existing business.
func StoreBusiness(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	var req validation.StoreBusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	if req.ParentID != nil {
		var parent model.Business
		if err := database.GetDB().First(&parent, *req.ParentID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
	}

	business := model.Business{
		UserID:   claims.UserID,
		ParentID: req.ParentID,
		Name:     req.Name,
		CNPJ:     req.CNPJ,
		Phone:    req.Phone,
		Address:  req.Address,
		Image:    model.DefaultBusinessImage,
	}

	if err := database.GetDB().Create(&business).Error; err != nil {
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "cnpj already registered"})
		}
		log.Error("Failed to create business", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if file, ferr := c.FormFile("image"); ferr == nil {
		dest := imagestore.GenerateFilename("business", business.ID, file.Filename)
		if stored, merr := imagestore.MoveFile(file, dest); merr == nil {
			if uerr := database.GetDB().Model(&business).Update("image", stored).Error; uerr == nil {
				business.Image = stored
			}
		} else {
			log.Warn("Failed to store business image", zap.Error(merr))
		}
	}

	prometheus.RecordEntityOperation("business", "create")
	log.Info("Business created", zap.Uint("business_id", business.ID), zap.String("name", business.Name))

	return c.JSON(http.StatusCreated, echo.Map{"business": business})
}

// ShowBusiness returns one business with its children and affiliations.
func ShowBusiness(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid business id"})
	}

	var business model.Business
	err = database.GetDB().
		Preload("Children").
		Preload("BusinessPeople").
		First(&business, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
		logger.FromContext(c).Error("Failed to load business", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"business": business})
}

// UpdateBusiness changes a business. Reparenting is rejected when the
// new parent is the business itself or one of its descendants, which
// would detach the subtree into a cycle.
func UpdateBusiness(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdateBusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var business model.Business
	if err := database.GetDB().First(&business, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
		log.Error("Failed to load business", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if req.ParentID != nil {
		if err := checkReparent(business.ID, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err.Error()})
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CNPJ != nil {
		updates["cnpj"] = *req.CNPJ
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&business).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "cnpj already registered"})
			}
			log.Error("Failed to update business", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
		}
	}

	prometheus.RecordEntityOperation("business", "update")
	return c.JSON(http.StatusOK, echo.Map{"business": business})
}

// DestroyBusiness removes a business together with its entire subtree
// and every warehouse, recipe and affiliation hanging off it, in one
// transaction.
func DestroyBusiness(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid business id"})
	}

	var business model.Business
	if err := database.GetDB().First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
		log.Error("Failed to load business", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		ids, err := subtreeIDs(tx, business.ID)
		if err != nil {
			return err
		}
		if err := tx.Where("business_id IN ?", ids).Delete(&model.Warehouse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id IN ?", ids).Delete(&model.Recipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id IN ?", ids).Delete(&model.BusinessPerson{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Business{}).Error
	})
	if err != nil {
		log.Error("Failed to delete business", zap.Error(err), zap.Uint("business_id", business.ID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if business.Image != "" && business.Image != model.DefaultBusinessImage {
		if derr := imagestore.DeleteFile(business.Image); derr != nil {
			log.Warn("Failed to remove business image", zap.Error(derr))
		}
	}

	prometheus.RecordEntityOperation("business", "delete")
	log.Info("Business deleted", zap.Uint("business_id", business.ID))

	return c.JSON(http.StatusOK, echo.Map{"msg": "Negocio eliminado correctamente."})
}

// checkReparent verifies a new parent exists and is neither the
// business itself nor one of its descendants. It walks upward from
// the candidate, so a chain already containing the business means a
// cycle.
func checkReparent(businessID, parentID uint) error {
	if parentID == businessID {
		return errors.New("a business cannot be its own parent")
	}

	current := parentID
	for {
		var node model.Business
		if err := database.GetDB().Select("id", "parent_id").First(&node, current).Error; err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == businessID {
			return errors.New("a business cannot be moved under its own descendant")
		}
		current = *node.ParentID
	}
}

// subtreeIDs collects a business id plus all descendant ids,
// breadth-first.
func subtreeIDs(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var children []model.Business
		if err := tx.Select("id").Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			ids = append(ids, child.ID)
			frontier = append(frontier, child.ID)
		}
	}
	return ids, nil
}
