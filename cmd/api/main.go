package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stepuplabz/market/internal/cache"
	"github.com/stepuplabz/market/internal/config"
	dbpkg "github.com/stepuplabz/market/internal/db"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/routes"
	"github.com/stepuplabz/market/internal/storage"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	statsCache := cache.New(cfg)
	if statsCache == nil {
		log.Println("redis not configured, stats cache disabled")
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, store, statsCache)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
