package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("YATUBE_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	var pages *cache.Pages
	if cfg.CacheSeconds > 0 {
		pages = cache.New(cfg.CacheTTL())
	}

	srv, err := server.New(database, cfg.TemplateDir, cfg.StaticDir, cfg.MediaDir, pages)
	if err != nil {
		log.Fatal(err)
	}
	srv.SessionTTL = cfg.SessionTTL()

	go sweepSessions(database)

	log.Printf("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatal(err)
	}
}

// sweepSessions drops expired sessions every half hour.
func sweepSessions(database *sql.DB) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		n, err := models.DeleteExpiredSessions(database)
		if err != nil {
			log.Printf("session sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("removed %d expired sessions", n)
		}
	}
}
