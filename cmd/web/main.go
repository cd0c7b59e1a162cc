package main

import (
	"fmt"
	"log"

	"github.com/gorilla/sessions"

	"storefront/core"
)

func main() {
	cfg := core.Load()

	logCloser, err := core.SetupLogging(cfg, "web.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	catalog, err := core.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	// Gorilla cookie store holds the auth token and CSRF token.
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	authClient := core.NewHTTPAuthClient(cfg.AuthAPIURL, cfg.AuthAPITimeout)

	router := core.NewWebRouter(cfg, store, authClient, catalog)

	addr := fmt.Sprintf(":%s", cfg.WebPort)
	log.Printf("starting storefront on %s (auth api %s)", addr, cfg.AuthAPIURL)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
