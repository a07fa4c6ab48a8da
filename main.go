package main

import (
	"log"
	"time"

	"pixeljournal/config"
	"pixeljournal/database"
	imagesapi "pixeljournal/internal/api/images"
	usersapi "pixeljournal/internal/api/users"
	routes "pixeljournal/internal/app/http"
	"pixeljournal/internal/domain/usage"
	"pixeljournal/internal/genai"
	"pixeljournal/internal/infra/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	store, err := storage.New(config.UPLOADS_DIR, "/uploads")
	if err != nil {
		log.Fatal("❌ Failed to init image store:", err)
	}

	ledger := usage.NewLedger(database.DB, usage.SystemClock{})
	generator := genai.NewOrchestrator(genai.NewWorkersAIBackend())

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", config.UPLOADS_DIR)

	routes.RegisterRoutes(r, routes.Deps{
		Users:  usersapi.NewHandler(database.DB, ledger),
		Images: imagesapi.NewHandler(database.DB, ledger, generator, store),
	})

	r.Run(":" + config.PORT)
}
