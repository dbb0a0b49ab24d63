package service

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/nrawrx3/unobot"
	"github.com/nrawrx3/unobot/internal/messages"
	"github.com/nrawrx3/unobot/internal/utils"
)

// HTTPServer exposes the action and query surface of a GameService to the
// bot process over HTTP. All rules live in the state machine; these
// handlers only decode, delegate and encode.
type HTTPServer struct {
	service    *GameService
	router     *mux.Router
	httpServer *http.Server
	logger     *log.Logger
}

func NewHTTPServer(service *GameService, listenAddr utils.TCPAddress) *HTTPServer {
	server := &HTTPServer{
		service: service,
		logger:  utils.CreateFileLogger(false, "unobot_http"),
	}

	r := mux.NewRouter()

	r.Path("/lobby").Methods("POST").HandlerFunc(server.handleCreateLobby)
	r.Path("/lobby/{lobbyRef}").Methods("GET").HandlerFunc(server.handleGetLobby)
	r.Path("/lobby/{lobbyRef}").Methods("DELETE").HandlerFunc(server.handleRemoveLobby)
	r.Path("/lobby/{lobbyRef}/start").Methods("POST").HandlerFunc(server.handleStartGame)
	r.Path("/lobby/{lobbyRef}/play").Methods("POST").HandlerFunc(server.handlePlayCard)
	r.Path("/lobby/{lobbyRef}/draw").Methods("POST").HandlerFunc(server.handleDrawCard)
	r.Path("/lobby/{lobbyRef}/call_uno").Methods("POST").HandlerFunc(server.handleCallUno)
	r.Path("/lobby/{lobbyRef}/end").Methods("POST").HandlerFunc(server.handleEndGame)
	r.Path("/lobby/{lobbyRef}/hand/{player}").Methods("GET").HandlerFunc(server.handleGetHand)
	utils.RoutesSummary(r, server.logger)

	server.router = r
	server.httpServer = &http.Server{
		Handler:           r,
		Addr:              listenAddr.BindString(),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       1 * time.Minute,
		ReadHeaderTimeout: 2 * time.Second,
	}

	return server
}

// Router returns the underlying mux, mainly for tests.
func (server *HTTPServer) Router() *mux.Router {
	return server.router
}

func (server *HTTPServer) ListenAndServe() error {
	server.logger.Printf("Running unobot gateway at addr: %s", server.httpServer.Addr)
	return server.httpServer.ListenAndServe()
}

func statusCodeOfGameError(gameErr *unobot.GameError) int {
	switch gameErr.Kind {
	case unobot.ErrorLobbyNotFound:
		return http.StatusNotFound
	case unobot.ErrorLobbyExists, unobot.ErrorAlreadyStarted, unobot.ErrorGameNotActive:
		return http.StatusConflict
	case unobot.ErrorNoCardsLeft:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (server *HTTPServer) writeError(w http.ResponseWriter, err error) {
	if gameErr, ok := unobot.AsGameError(err); ok {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(statusCodeOfGameError(gameErr))
		payload := messages.NewGameErrorPayload(gameErr)
		json.NewEncoder(w).Encode(&payload)
		return
	}

	server.logger.Printf("unexpected error: %s", err)
	w.WriteHeader(http.StatusInternalServerError)
	messages.WriteErrorPayload(w, err)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Add("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (server *HTTPServer) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var msg messages.CreateLobbyMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lobbyRef, err := server.service.CreateLobby(msg.LobbyRef, msg.Owner)
	if err != nil {
		server.writeError(w, err)
		return
	}

	writeJSON(w, messages.CreateLobbyResponse{LobbyRef: lobbyRef})
}

func (server *HTTPServer) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	snapshot, err := server.service.Snapshot(lobbyRef)
	if err != nil {
		server.writeError(w, err)
		return
	}

	writeJSON(w, snapshot)
}

func (server *HTTPServer) handleRemoveLobby(w http.ResponseWriter, r *http.Request) {
	server.service.RemoveLobby(mux.Vars(r)["lobbyRef"])
	w.WriteHeader(http.StatusOK)
}

func (server *HTTPServer) handleStartGame(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	var msg messages.StartGameMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := server.service.StartGame(lobbyRef, msg.Players); err != nil {
		server.writeError(w, err)
		return
	}

	snapshot, err := server.service.Snapshot(lobbyRef)
	if err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, snapshot)
}

func (server *HTTPServer) handlePlayCard(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	var msg messages.PlayCardMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := server.service.Play(lobbyRef, msg.Player, msg.Card, msg.ChosenColor); err != nil {
		server.writeError(w, err)
		return
	}

	snapshot, err := server.service.Snapshot(lobbyRef)
	if err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, snapshot)
}

func (server *HTTPServer) handleDrawCard(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	var msg messages.DrawCardMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := server.service.Draw(lobbyRef, msg.Player); err != nil {
		server.writeError(w, err)
		return
	}

	snapshot, err := server.service.Snapshot(lobbyRef)
	if err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, snapshot)
}

func (server *HTTPServer) handleCallUno(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	var msg messages.CallUnoMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := server.service.CallUno(lobbyRef, msg.Caller)
	if err != nil {
		server.writeError(w, err)
		return
	}

	writeJSON(w, result)
}

func (server *HTTPServer) handleEndGame(w http.ResponseWriter, r *http.Request) {
	lobbyRef := mux.Vars(r)["lobbyRef"]

	if err := server.service.EndGame(lobbyRef); err != nil {
		server.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (server *HTTPServer) handleGetHand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hand, err := server.service.Hand(vars["lobbyRef"], vars["player"])
	if err != nil {
		server.writeError(w, err)
		return
	}

	writeJSON(w, messages.HandMessage{Player: vars["player"], Cards: hand})
}

type EnvConfig struct {
	ListenAddr      string `split_words:"true" required:"true"`
	ListenPort      int    `split_words:"true" required:"true"`
	RunREPL         bool   `split_words:"true" required:"false" default:"true"`
	UnoGraceSeconds int    `split_words:"true" required:"false" default:"5"`
	StackDraws      bool   `split_words:"true" required:"false" default:"false"`
}

// RunApp loads config, builds the service and runs the gateway plus the
// operator REPL until one of them fails.
func RunApp() {
	var envConfig EnvConfig
	var configFile string
	flag.StringVar(&configFile, "conf", ".env", "Dotenv config file for the unobot engine")

	flag.Parse()

	if configFile == ".env" {
		log.Print("No config file given, reading from .env")
	}

	err := godotenv.Load(configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	err = envconfig.Process("UNOBOT", &envConfig)
	if err != nil {
		log.Fatal(err.Error())
	}

	rules := unobot.DefaultRules()
	rules.UnoGrace = time.Duration(envConfig.UnoGraceSeconds) * time.Second
	rules.StackDraws = envConfig.StackDraws

	service := NewGameService(rules, nil)
	server := NewHTTPServer(service, utils.TCPAddress{Host: envConfig.ListenAddr, Port: envConfig.ListenPort})

	var g errgroup.Group

	g.Go(server.ListenAndServe)

	if envConfig.RunREPL {
		g.Go(func() error {
			return RunREPL(service)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("unobot engine stopped: %s", err)
	}
}
