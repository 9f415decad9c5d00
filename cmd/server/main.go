package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"arena/internal/game"
	"arena/internal/server"
)

func main() {
	tuningPath := flag.String("tuning", "", "optional YAML tuning overrides")
	flag.Parse()

	cfg, err := game.LoadTuning(*tuningPath)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	reg := server.NewRegistry(cfg)
	go reg.Run()

	http.HandleFunc("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		host := reg.CreateRoom()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": host.Code,
		})
	})

	http.HandleFunc("/api/rooms/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/api/rooms/")
		_, ok := reg.Lookup(code)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":   code,
			"exists": ok,
		})
	})

	http.HandleFunc("/ws", server.HandleWebSocket(reg))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws?room=CODE", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal("Server error:", err)
	}
}
