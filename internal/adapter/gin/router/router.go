package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/gin/middleware"
	apperrors "user-service/pkg/errors"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// Every /users route sits behind the bearer-token gate.
func SetupRouter(
	userHandler *handler.UserHandler,
	verifier *middleware.TokenVerifier,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	handler.RegisterFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	users := router.Group("/users", middleware.Auth(verifier, log))
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.PATCH("/:id/change-password", userHandler.ChangePassword)
	}

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.New(apperrors.KindRouteNotFound,
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
	})

	return router
}
