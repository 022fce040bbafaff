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

// BusinessRecipes pages through one business's recipes in ascending
// id order, same cursor contract as the warehouse listing.
func BusinessRecipes(c echo.Context) error {
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
	var recipes []model.Recipe
	q := database.GetDB().Where("business_id = ?", req.BusinessID)
	if err := applyCursor(q, req.Cursor, pageSize).Find(&recipes).Error; err != nil {
		log.Error("Failed to page recipes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	var nextCursor interface{}
	if len(recipes) > 0 {
		nextCursor = recipes[len(recipes)-1].ID
	}

	return c.JSON(http.StatusOK, echo.Map{
		"recipe": recipes,
		"pagination": echo.Map{
			"nextCursor": nextCursor,
			"pageSize":   pageSize,
		},
	})
}

// StoreRecipe creates a recipe authored by a person for a business.
func StoreRecipe(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.StoreRecipeRequest
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

	recipe := model.Recipe{
		BusinessID:  req.BusinessID,
		PersonID:    req.PersonID,
		Name:        req.Name,
		Description: req.Description,
		Image:       model.DefaultRecipeImage,
	}

	if err := database.GetDB().Create(&recipe).Error; err != nil {
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "recipe name already exists"})
		}
		log.Error("Failed to create recipe", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	prometheus.RecordEntityOperation("recipe", "create")
	log.Info("Recipe created", zap.Uint("recipe_id", recipe.ID), zap.String("name", recipe.Name))

	return c.JSON(http.StatusCreated, echo.Map{"recipe": recipe})
}

// ShowRecipe returns one recipe by id.
func ShowRecipe(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid recipe id"})
	}

	var recipe model.Recipe
	if err := database.GetDB().First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RecipeNotFound"})
		}
		logger.FromContext(c).Error("Failed to load recipe", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"recipe": recipe})
}

// UpdateRecipe changes a recipe's name or description.
func UpdateRecipe(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var recipe model.Recipe
	if err := database.GetDB().First(&recipe, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RecipeNotFound"})
		}
		log.Error("Failed to load recipe", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&recipe).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "recipe name already exists"})
			}
			log.Error("Failed to update recipe", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
		}
	}

	prometheus.RecordEntityOperation("recipe", "update")
	return c.JSON(http.StatusOK, echo.Map{"recipe": recipe})
}

// DestroyRecipe removes a recipe by id.
func DestroyRecipe(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid recipe id"})
	}

	var recipe model.Recipe
	if err := database.GetDB().First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RecipeNotFound"})
		}
		log.Error("Failed to load recipe", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if err := database.GetDB().Delete(&recipe).Error; err != nil {
		log.Error("Failed to delete recipe", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if recipe.Image != "" && recipe.Image != model.DefaultRecipeImage {
		if derr := imagestore.DeleteFile(recipe.Image); derr != nil {
			log.Warn("Failed to remove recipe image", zap.Error(derr))
		}
	}

	prometheus.RecordEntityOperation("recipe", "delete")
	log.Info("Recipe deleted", zap.Uint("recipe_id", recipe.ID))

	return c.JSON(http.StatusOK, echo.Map{"msg": "Receta eliminada correctamente."})
}
