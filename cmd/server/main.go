package main

import (
	"log"

	"github.com/NinaPoglic/boar-telemetry-go/internal/api"
	"github.com/NinaPoglic/boar-telemetry-go/internal/config"
	"github.com/NinaPoglic/boar-telemetry-go/internal/database"
	"github.com/NinaPoglic/boar-telemetry-go/internal/habitat"

	// Import analyzer packages to register them
	_ "github.com/NinaPoglic/boar-telemetry-go/internal/analysis/resting"
	_ "github.com/NinaPoglic/boar-telemetry-go/internal/analysis/reststats"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	var habitats *habitat.Index
	if cfg.HabitatPath != "" {
		habitats, err = habitat.LoadGeoJSON(cfg.HabitatPath)
		if err != nil {
			log.Fatal("Failed to load habitat polygons: ", err)
		}
		log.Printf("Loaded %d habitat features from %s", habitats.Size(), cfg.HabitatPath)
	}

	router := api.SetupRouter(cfg, db, habitats)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
