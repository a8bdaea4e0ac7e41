package main

import (
	"os"

	"note-ai/assistant/internal/app"
)

// @title        Note Assistant API
// @version      1.0
// @description  Streaming AI chat backend for the note workspace.
// @host         localhost:8000
// @BasePath     /api
func main() {
	os.Exit(app.Run())
}
