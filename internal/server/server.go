package server

import (
	"fmt"
	"net/http"

	"github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"poolroom/internal/directory"
	"poolroom/internal/handlers"
	"poolroom/internal/handlers/room"
	"poolroom/internal/ledger"
	"poolroom/internal/models"
	"poolroom/internal/poll"
	"poolroom/internal/store"
	"poolroom/internal/ws"
)

type Server struct {
	Addr      string
	Store     store.Store
	Registry  *ledger.Registry
	Engine    *ledger.Engine
	Chat      *ledger.Chat
	Scheduler *poll.Scheduler
	Hub       *ws.Hub
	Directory directory.Resolver
	Log       *logrus.Logger
}

func HandlerFunc(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

func (s *Server) Run() error {
	r := chi.NewRouter()

	r.Use(logger.Logger("router", s.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "poolroom API is running")
	})
	r.Get("/health", HandlerFunc(&handlers.HealthHandler{Store: s.Store}))

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", HandlerFunc(&room.ListHandler{Registry: s.Registry}))
		r.Get("/{name}", HandlerFunc(&room.StateHandler{Registry: s.Registry}))
		r.Get("/{name}/snapshot", HandlerFunc(&room.SnapshotHandler{Scheduler: s.Scheduler}))
		r.Post("/{name}/join", HandlerFunc(&room.JoinHandler{Registry: s.Registry, Directory: s.Directory, Hub: s.Hub}))
		r.Post("/{name}/split", HandlerFunc(&room.SettleHandler{Engine: s.Engine, Hub: s.Hub, Kind: models.KindExpense}))
		r.Post("/{name}/profit", HandlerFunc(&room.SettleHandler{Engine: s.Engine, Hub: s.Hub, Kind: models.KindProfit}))
		r.Get("/{name}/messages", HandlerFunc(&room.MessagesHandler{Chat: s.Chat}))
		r.Post("/{name}/messages", HandlerFunc(&room.SendMessageHandler{Chat: s.Chat, Hub: s.Hub}))
		r.Get("/{name}/transactions", HandlerFunc(&room.TransactionsHandler{Engine: s.Engine}))
	})

	r.Get("/ws", HandlerFunc(&handlers.SocketHandler{Store: s.Store, Hub: s.Hub}))

	s.Log.WithField("addr", s.Addr).Info("server running")
	return http.ListenAndServe(s.Addr, r)
}
