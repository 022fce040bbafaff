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
	"github.com/jimmbo89/api-sweetspot/pkg/imagestore"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// ListWarehouses returns every stock entry with its product.
func ListWarehouses(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var warehouses []model.Warehouse
	if err := database.GetDB().Preload("Product").Order("id ASC").Find(&warehouses).Error; err != nil {
		log.Error("Failed to list warehouses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"warehouse": warehouses})
}

// BusinessWarehouses pages through one business's stock entries in
// ascending id order. The cursor is the last id of the previous page;
// a null nextCursor means the collection is exhausted.
func BusinessWarehouses(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.CursorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	if err := database.GetDB().First(&model.Business{}, req.BusinessID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var warehouses []model.Warehouse
	q := database.GetDB().
		Where("business_id = ?", req.BusinessID).
		Preload("Product")
	if err := applyCursor(q, req.Cursor, pageSize).Find(&warehouses).Error; err != nil {
		log.Error("Failed to page warehouses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	var nextCursor interface{}
	if len(warehouses) > 0 {
		nextCursor = warehouses[len(warehouses)-1].ID
	}

	return c.JSON(http.StatusOK, echo.Map{
		"warehouse": warehouses,
		"pagination": echo.Map{
			"nextCursor": nextCursor,
			"pageSize":   pageSize,
		},
	})
}

// StoreWarehouse creates a stock entry. Without a product_id the
// product is created from the given name inside the same transaction;
// a name that already belongs to a product is rejected before any
// write happens.
func StoreWarehouse(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.StoreWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	if err := database.GetDB().First(&model.Business{}, req.BusinessID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
	}

	if req.ProductID != nil {
		if err := database.GetDB().First(&model.Product{}, *req.ProductID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "ProductNotFound"})
		}
	} else {
		var count int64
		database.GetDB().Model(&model.Product{}).Where("name = ?", req.Name).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"msg": "ProductExist"})
		}
	}

	var warehouse model.Warehouse

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		productID := req.ProductID
		if productID == nil {
			product := model.Product{Name: req.Name}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			productID = &product.ID
		}

		warehouse = model.Warehouse{
			ProductID:      *productID,
			BusinessID:     req.BusinessID,
			ExpirationDate: req.ExpirationDate,
			Description:    req.Description,
			Measure:        req.Measure,
			Total:          req.Total,
			Image:          model.DefaultWarehouseImage,
		}
		return tx.Create(&warehouse).Error
	})
	if err != nil {
		log.Error("Failed to create warehouse entry", zap.Error(err))
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"msg": "ProductExist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("warehouse", "create")
	log.Info("Warehouse entry created",
		zap.Uint("warehouse_id", warehouse.ID),
		zap.Uint("business_id", warehouse.BusinessID),
		zap.Uint("product_id", warehouse.ProductID))

	return c.JSON(http.StatusCreated, echo.Map{"warehouse": warehouse})
}

// ShowWarehouse returns one stock entry with its product and business.
func ShowWarehouse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid warehouse id"})
	}

	var warehouse model.Warehouse
	err = database.GetDB().
		Preload("Product").
		Preload("Business").
		First(&warehouse, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "WarehouseNotFound"})
		}
		logger.FromContext(c).Error("Failed to load warehouse entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"warehouse": warehouse})
}

// UpdateWarehouse changes a stock entry by id.
func UpdateWarehouse(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdateWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var warehouse model.Warehouse
	if err := database.GetDB().First(&warehouse, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "WarehouseNotFound"})
		}
		log.Error("Failed to load warehouse entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if req.ProductID != nil {
		if err := database.GetDB().First(&model.Product{}, *req.ProductID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "ProductNotFound"})
		}
	}
	if req.BusinessID != nil {
		if err := database.GetDB().First(&model.Business{}, *req.BusinessID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
	}

	updates := map[string]interface{}{}
	if req.ProductID != nil {
		updates["product_id"] = *req.ProductID
	}
	if req.BusinessID != nil {
		updates["business_id"] = *req.BusinessID
	}
	if req.ExpirationDate != nil {
		updates["expiration_date"] = req.ExpirationDate
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Measure != nil {
		updates["measure"] = *req.Measure
	}
	if req.Total != nil {
		updates["total"] = *req.Total
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// A name renames the referenced product; the unique index
		// rejects a rename onto an existing product.
		if req.Name != nil {
			productID := warehouse.ProductID
			if req.ProductID != nil {
				productID = *req.ProductID
			}
			err := tx.Model(&model.Product{}).Where("id = ?", productID).Update("name", *req.Name).Error
			if err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&warehouse).Updates(updates).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"msg": "ProductExist"})
		}
		log.Error("Failed to update warehouse entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("warehouse", "update")
	return c.JSON(http.StatusOK, echo.Map{"warehouse": warehouse})
}

// DestroyWarehouse removes a stock entry by id. The product row stays:
// other businesses may stock it.
func DestroyWarehouse(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid warehouse id"})
	}

	var warehouse model.Warehouse
	if err := database.GetDB().First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "WarehouseNotFound"})
		}
		log.Error("Failed to load warehouse entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if err := database.GetDB().Delete(&warehouse).Error; err != nil {
		log.Error("Failed to delete warehouse entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if warehouse.Image != "" && warehouse.Image != model.DefaultWarehouseImage {
		if derr := imagestore.DeleteFile(warehouse.Image); derr != nil {
			log.Warn("Failed to remove warehouse image", zap.Error(derr))
		}
	}

	prometheus.RecordEntityOperation("warehouse", "delete")
	log.Info("Warehouse entry deleted", zap.Uint("warehouse_id", warehouse.ID))

	return c.JSON(http.StatusOK, echo.Map{"msg": "Registro de almacén eliminado correctamente."})
}
