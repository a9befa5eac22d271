package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/vigiahq/vigia/internal/api"
	"github.com/vigiahq/vigia/internal/config"
)

func main() {
	cfgPath := flag.String("config", getenv("VIGIA_CONFIG", "server.yaml"), "path to server config file")
	flag.Parse()

	cfg, err := config.LoadServer(*cfgPath)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	if len(cfg.Users) == 0 {
		log.Printf("server: warning: no users configured, every login will fail")
	}

	users := make([]api.User, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, api.User{
			Name:         u.Name,
			PassHash:     []byte(u.PassHash),
			CanDashboard: u.CanDashboard,
		})
	}

	mux := http.NewServeMux()
	rt := api.NewRouter(users, []byte(cfg.JWTSecret), api.AppConfig{Title: cfg.Title, Regions: cfg.Regions})
	rt.Register(mux)

	log.Printf("server: listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
