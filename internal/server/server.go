// Package server exposes the state of a live session over HTTP: Prometheus metrics and
// read-only views of the agents owned by the controller.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/dionysus/internal/controller"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/metrics"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/internal/version"
	"go.uber.org/zap"
)

// Server serves the status API.
type Server struct {
	controller *controller.Controller
	metrics    *metrics.Metrics
	log        *logger.Logger

	httpServer *http.Server
	listener   net.Listener
}

// AgentView is the JSON form of an agent.
type AgentView struct {
	Token         string           `json:"token"`
	Strategy      string           `json:"strategy"`
	Capital       float64          `json:"capital"`
	LockedCapital float64          `json:"locked_capital"`
	Balance       float64          `json:"balance"`
	Positions     []types.Position `json:"positions"`
	Orders        []types.Order    `json:"orders"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(c *controller.Controller, m *metrics.Metrics, log *logger.Logger) *Server {
	return &Server{controller: c, metrics: m, log: log}
}

// Router builds the routes of the status API.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	router.HandleFunc("/version", s.handleVersion).Methods("GET")
	router.HandleFunc("/agents", s.handleAgents).Methods("GET")
	router.HandleFunc("/agents/{symbol}/{currency}", s.handleAgent).Methods("GET")
	router.HandleFunc("/balances", s.handleBalances).Methods("GET")

	return router
}

// Start listens on address and serves in the background.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Status server stopped", zap.Error(err))
		}
	}()

	s.log.Info("Status server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.GetVersion()})
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	tokens := s.controller.Tokens()
	views := make([]AgentView, 0, len(tokens))

	for _, token := range tokens {
		snapshot := s.controller.Get(token)
		if snapshot.IsNone() {
			continue
		}

		views = append(views, newAgentView(snapshot.Unwrap()))
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := types.NewPair(vars["symbol"], vars["currency"])

	snapshot := s.controller.Get(token)
	if snapshot.IsNone() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no agent for " + token.Name()})

		return
	}

	writeJSON(w, http.StatusOK, newAgentView(snapshot.Unwrap()))
}

func (s *Server) handleBalances(w http.ResponseWriter, _ *http.Request) {
	held := s.controller.Balances()

	balances := make(map[string]float64, len(held))
	for _, token := range s.controller.Tokens() {
		if balance, ok := held[token.Key()]; ok {
			balances[token.Name()] = balance
		}
	}

	writeJSON(w, http.StatusOK, balances)
}

func newAgentView(snapshot controller.Snapshot) AgentView {
	return AgentView{
		Token:         snapshot.Token.Name(),
		Strategy:      snapshot.Strategy.Name(),
		Capital:       snapshot.Capital,
		LockedCapital: snapshot.LockedCapital,
		Balance:       snapshot.Balance,
		Positions:     snapshot.Positions,
		Orders:        snapshot.Orders,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
