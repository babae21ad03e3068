package api

import "github.com/FocuswithJustin/MiAlmaBiblia/internal/gesture"

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string       // CORS and websocket origins (empty = allow all)
	Gesture        gesture.Config // swipe thresholds for /swipe
	Version        string         // reported by /health
}
