// Package router assembles the echo application: middleware chain,
// public endpoints and the token-protected API group.
package router

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jimmbo89/api-sweetspot/internal/handler"
	"github.com/jimmbo89/api-sweetspot/internal/middleware"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// New builds the echo instance used by main and by the handler tests.
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api")

	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)
	api.GET("/verify-email/:id", handler.VerifyEmail)

	auth := api.Group("", middleware.AuthMiddleware)

	auth.POST("/logout", handler.Logout)
	auth.PUT("/update-password", handler.UpdatePassword)

	auth.GET("/role", handler.ListRoles)
	auth.POST("/role", handler.StoreRole)
	auth.POST("/role/type", handler.GetRolesByType)
	auth.GET("/role/:id", handler.ShowRole)
	auth.PUT("/role", handler.UpdateRole)
	auth.DELETE("/role/:id", handler.DestroyRole)

	auth.GET("/business", handler.ListBusinesses)
	auth.POST("/business", handler.StoreBusiness)
	auth.GET("/business/:id", handler.ShowBusiness)
	auth.PUT("/business", handler.UpdateBusiness)
	auth.DELETE("/business/:id", handler.DestroyBusiness)

	auth.GET("/business-person/business/:businessId", handler.ListBusinessPeople)
	auth.POST("/business-person", handler.StoreBusinessPerson)
	auth.GET("/business-person/:id", handler.ShowBusinessPerson)
	auth.PUT("/business-person", handler.UpdateBusinessPerson)
	auth.DELETE("/business-person/:id", handler.DestroyBusinessPerson)

	auth.POST("/person/index", handler.IndexPeople)
	auth.POST("/person", handler.StorePerson)
	auth.GET("/person/:id", handler.ShowPerson)
	auth.PUT("/person", handler.UpdatePerson)
	auth.DELETE("/person/:id", handler.DestroyPerson)

	auth.GET("/warehouse", handler.ListWarehouses)
	auth.POST("/warehouse/business", handler.BusinessWarehouses)
	auth.POST("/warehouse", handler.StoreWarehouse)
	auth.GET("/warehouse/:id", handler.ShowWarehouse)
	auth.PUT("/warehouse", handler.UpdateWarehouse)
	auth.DELETE("/warehouse/:id", handler.DestroyWarehouse)

	auth.POST("/recipe/business", handler.BusinessRecipes)
	auth.POST("/recipe", handler.StoreRecipe)
	auth.GET("/recipe/:id", handler.ShowRecipe)
	auth.PUT("/recipe", handler.UpdateRecipe)
	auth.DELETE("/recipe/:id", handler.DestroyRecipe)

	return e
}
