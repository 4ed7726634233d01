package routes

import (
	"net/http"

	response "invoice_management/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OK(gin.H{"message": "pong"}))
	})
}
