package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ecosim-server/internal/engine"
	"ecosim-server/internal/version"
	"ecosim-server/pkg/api"
	"ecosim-server/pkg/logger"
)

// Server - HTTP-фасад над реестром партий.
type Server struct {
	Registry *engine.Registry
	Hub      *Broadcaster
	Port     string
}

func New(registry *engine.Registry, port string) *Server {
	return &Server{
		Registry: registry,
		Hub:      NewBroadcaster(),
		Port:     port,
	}
}

// Run запускает HTTP сервер.
func (s *Server) Run() error {
	logger.Log.Infof("Ecosim server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, s.Handler())
}

// Handler собирает маршруты. Вынесено из Run ради httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", enableCORS(s.handleHealth))
	mux.HandleFunc("GET /version", enableCORS(s.handleVersion))

	mux.HandleFunc("POST /games", enableCORS(s.handleCreateGame))
	mux.HandleFunc("GET /games", enableCORS(s.handleListGames))
	mux.HandleFunc("DELETE /games/{id}", enableCORS(s.handleDeleteGame))
	mux.HandleFunc("POST /games/{id}/turn", enableCORS(s.handleTurn))
	mux.HandleFunc("GET /games/{id}/board", enableCORS(s.handleBoard))
	mux.HandleFunc("GET /games/{id}/stats", enableCORS(s.handleStats))
	mux.HandleFunc("GET /games/{id}/entity/{entityID}", enableCORS(s.handleEntity))
	mux.HandleFunc("GET /games/{id}/ws", s.handleWS)

	return mux
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	// Пустое тело допустимо: партия собирается на умолчаниях.
	var req api.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := s.Registry.Create(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, api.GameInfo{
		ID:     in.ID,
		Turn:   in.Loop.Turn,
		Width:  in.Loop.Board.Width,
		Height: in.Loop.Board.Height,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Registry.List())
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.Registry.Delete(r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	in, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	in.StepTurn()
	resp := api.TurnResponse{
		GameID: in.ID,
		Stats:  in.Stats(),
		Board:  in.Snapshot(),
	}
	s.Hub.Broadcast(in.ID, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	in, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, in.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	in, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, in.Stats())
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	in, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	ent, err := in.Entity(r.PathValue("entityID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

// handleWS подключает наблюдателя к партии.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	in, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(in, s.Hub, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrGameNotFound), errors.Is(err, engine.ErrEntityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
