package handler

import (
	"fmt"

	C "basketminer/config"
	swaggerDocs "basketminer/docs"
	"basketminer/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func InitRoutes(r *gin.Engine, rs *store.ResultStore) {
	// CORS
	if C.IsDevelopment() {
		log.Info("Running in development.")
		config := cors.DefaultConfig()
		config.AllowOrigins = []string{"http://localhost:8080",
			"http://localhost:3000"}
		r.Use(cors.New(config))

		swaggerDocs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", C.GetConfig().Port)
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/status", StatusHandler)

	v1 := r.Group("/v1")
	v1.POST("/mine", MineHandler(rs))
	v1.POST("/compare", CompareHandler(rs))
	v1.GET("/runs/:run_id", GetRunHandler(rs))
}
