package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/internal/validation"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/imagestore"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// IndexPeople lists people. With business_id it returns only the
// people affiliated to that business.
func IndexPeople(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.PersonIndexRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var people []model.Person
	q := database.GetDB().Order("people.id ASC")
	if req.BusinessID != nil {
		q = q.Joins("JOIN business_people ON business_people.person_id = people.id").
			Where("business_people.business_id = ?", *req.BusinessID)
	}
	if err := q.Find(&people).Error; err != nil {
		log.Error("Failed to list people", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"person": people})
}

// StorePerson creates a person with a backing account and, when a
// business and role are given, its affiliation, all in one
// transaction. The welcome email goes out only after the commit.
func StorePerson(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.StorePersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	if req.BusinessID != nil {
		if err := database.GetDB().First(&model.Business{}, *req.BusinessID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "BusinessNotFound"})
		}
		if req.RoleID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "role_id is required with business_id"})
		}
		if err := database.GetDB().First(&model.Role{}, *req.RoleID).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "RoleNotFound"})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), cfg.Auth.BcryptCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	userName := req.User
	if userName == "" {
		userName = strings.Split(req.Email, "@")[0]
	}

	var user model.User
	var person model.Person

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		password := string(hashed)
		email := req.Email
		user = model.User{
			Name:     userName,
			Email:    &email,
			Password: &password,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		personEmail := req.Email
		person = model.Person{
			UserID:  user.ID,
			Name:    req.Name,
			Email:   &personEmail,
			CPF:     req.CPF,
			Phone:   req.Phone,
			Address: req.Address,
			Image:   model.DefaultPersonImage,
		}
		if err := tx.Create(&person).Error; err != nil {
			return err
		}

		if req.BusinessID == nil {
			return nil
		}

		bp := model.BusinessPerson{
			BusinessID: *req.BusinessID,
			PersonID:   person.ID,
			RoleID:     *req.RoleID,
			Active:     1,
			Pix:        req.Pix,
			Type:       req.Type,
			Name:       req.NamePix,
			Bank:       req.Bank,
			Workplace:  model.WorkplaceOwnBusiness,
		}
		if req.Workplace != nil {
			bp.Workplace = *req.Workplace
		}
		return tx.Create(&bp).Error
	})
	if err != nil {
		log.Error("Failed to create person", zap.Error(err))
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "email, user or cpf already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": err.Error()})
	}

	if err := sendVerificationEmail(req.Email, req.Name, user.ID); err != nil {
		log.Error("Failed to send verification email", zap.Error(err), zap.Uint("user_id", user.ID))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "CorreoNoEnviado",
			"details": "No se pudo enviar el correo debido a un problema con la autenticación o los datos del correo.",
		})
	}

	prometheus.RecordEntityOperation("person", "create")
	log.Info("Person created", zap.Uint("person_id", person.ID), zap.Uint("user_id", user.ID))

	return c.JSON(http.StatusCreated, echo.Map{"person": person})
}

// ShowPerson returns one person by id.
func ShowPerson(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid person id"})
	}

	var person model.Person
	if err := database.GetDB().First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "PersonNotFound"})
		}
		logger.FromContext(c).Error("Failed to load person", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"person": person})
}

// UpdatePerson changes a person's profile fields.
func UpdatePerson(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdatePersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var person model.Person
	if err := database.GetDB().First(&person, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "PersonNotFound"})
		}
		log.Error("Failed to load person", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.CPF != nil {
		updates["cpf"] = *req.CPF
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&person).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "email or cpf already registered"})
			}
			log.Error("Failed to update person", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
		}
	}

	prometheus.RecordEntityOperation("person", "update")
	return c.JSON(http.StatusOK, echo.Map{"person": person})
}

// DestroyPerson removes a person and its affiliations. The backing
// account is kept so the login history stays intact.
func DestroyPerson(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid person id"})
	}

	var person model.Person
	if err := database.GetDB().First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "PersonNotFound"})
		}
		log.Error("Failed to load person", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", person.ID).Delete(&model.BusinessPerson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&person).Error
	})
	if err != nil {
		log.Error("Failed to delete person", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if person.Image != "" && person.Image != model.DefaultPersonImage {
		if derr := imagestore.DeleteFile(person.Image); derr != nil {
			log.Warn("Failed to remove person image", zap.Error(derr))
		}
	}

	prometheus.RecordEntityOperation("person", "delete")
	log.Info("Person deleted", zap.Uint("person_id", person.ID))

	return c.JSON(http.StatusOK, echo.Map{"msg": "Persona eliminada correctamente."})
}
