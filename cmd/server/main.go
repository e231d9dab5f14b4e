// Package main implements the entry point for the taskdeck server, which
// exposes per-user task lists behind JWT authentication with keyset
// pagination over the task stream.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
