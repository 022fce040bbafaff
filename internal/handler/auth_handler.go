package handler

import (
	"errors"
	"fmt"
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
	"github.com/jimmbo89/api-sweetspot/pkg/jwtutil"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/pkg/mailer"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// Register creates an Account and its Person profile in one
// transaction. The welcome email goes out only after the commit; a
// delivery failure is reported as 422 but the rows stay durable.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req validation.RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	// Hashing is deliberately slow and must complete before anything
	// is persisted.
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), cfg.Auth.BcryptCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": "registration failed"})
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
		return tx.Create(&person).Error
	})
	if err != nil {
		log.Error("Failed to register user", zap.Error(err))
		if isDuplicate(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Conflict", "details": "email, user or cpf already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": err.Error()})
	}

	// The account is committed; email delivery cannot undo it.
	if err := sendVerificationEmail(req.Email, req.Name, user.ID); err != nil {
		log.Error("Failed to send verification email", zap.Error(err), zap.Uint("user_id", user.ID))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "CorreoNoEnviado",
			"details": "No se pudo enviar el correo debido a un problema con la autenticación o los datos del correo.",
		})
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.Uint("person_id", person.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"msg": "Correo enviado exitosamente.",
		"user": echo.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    req.Email,
			"personId": person.ID,
		},
	})
}

// VerifyEmail marks an account's email address as confirmed
func VerifyEmail(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid user id"})
	}

	var user model.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		log.Error("User not found for email verification", zap.Uint64("user_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Usuario no encontrado"})
	}

	now := time.Now()
	if err := database.GetDB().Model(&user).Update("email_verified_at", &now).Error; err != nil {
		log.Error("Failed to verify email", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "Correo verificado exitosamente."})
}

// Login authenticates by email or login handle and issues a session
// token. The token row is persisted before the response: a session
// that cannot be revoked later must not exist.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req validation.LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	err := database.GetDB().
		Where("email = ? OR name = ?", req.Email, req.Email).
		Preload("Person").
		First(&user).Error
	if err != nil {
		log.Warn("User not found", zap.String("login", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Usuario no encontrado"})
	}

	if !user.IsVerified() {
		prometheus.RecordAuthError("account_unverified")
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Su cuenta no ha sido confimada"})
	}

	if !user.HasPassword() {
		prometheus.RecordAuthError("no_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Credenciales inválidas"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Credenciales inválidas"})
	}

	if user.Person == nil {
		log.Error("Account has no person profile", zap.Uint("user_id", user.ID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": "account has no person profile"})
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	token, expiresAt, err := jwtutil.GenerateToken(user.ID, email, user.Name, user.Person.ID, user.Person.Name)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": "token error"})
	}

	userToken := model.UserToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := database.GetDB().Create(&userToken).Error; err != nil {
		// No token row, no session: the login fails as a whole.
		log.Error("Failed to persist session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ServerError", "details": err.Error()})
	}

	prometheus.ActiveTokensGauge.Inc()
	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("user_name", user.Name))

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        user.ID,
		"userName":  user.Name,
		"email":     email,
		"token":     token,
		"name":      user.Person.Name,
		"personId":  user.Person.ID,
		"expiresAt": expiresAt,
	})
}

// Logout revokes the presented session token. Other tokens issued to
// the same account remain valid.
func Logout(c echo.Context) error {
	log := logger.FromContext(c)

	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "No token proporcionado"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(&model.UserToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Update("revoked", true)
	if result.Error != nil {
		log.Error("Failed to revoke token", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Token no encontrado o ya revocado"})
	}

	prometheus.TokensRevokedCounter.Inc()
	prometheus.ActiveTokensGauge.Dec()
	log.Info("User logged out")

	return c.JSON(http.StatusOK, echo.Map{"msg": "Logout exitoso"})
}

// UpdatePassword changes an account password after checking the
// current one. On mismatch the stored hash is left untouched.
func UpdatePassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req validation.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": "invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "details": err})
	}

	var user model.User
	if err := database.GetDB().First(&user, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Usuario no encontrado"})
		}
		log.Error("Failed to load user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.CurrentPassword)) != nil {
		prometheus.RecordAuthError("invalid_current_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "La contraseña actual no es correcta."})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), cfg.Auth.BcryptCost)
	if err != nil {
		log.Error("Failed to hash new password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	if err := database.GetDB().Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}

	log.Info("Password updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"msg": "Contraseña actualizada correctamente."})
}

// sendVerificationEmail delivers the post-registration welcome mail
// with the account's verification link.
func sendVerificationEmail(to, name string, userID uint) error {
	link := fmt.Sprintf("%sverify-email/%d", cfg.Server.BaseURL, userID)
	return mail.Send(mailer.Message{
		To:      to,
		Subject: "Bienvenido a nuestra aplicación",
		Text:    fmt.Sprintf("Hola %s, gracias por unirte. Verifica tu correo aquí: %s", name, link),
		HTML: fmt.Sprintf(`<p>Hola <b>%s</b>,</p>
<p>Gracias por unirte a nuestra aplicación.</p>
<p>Por favor verifica tu correo haciendo clic en el enlace a continuación:</p>
<a href="%s">Verificar mi correo</a>
<p>Si no reconoces esta solicitud, puedes ignorar este mensaje.</p>`, name, link),
	})
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
