package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"marketsim/pkg/book"
	"marketsim/pkg/sim"
)

// Server exposes the book's read accessors over REST and pushes per-tick
// frames to WebSocket subscribers. It sits entirely on the renderer side of
// the simulation: every handler is a read.
type Server struct {
	book   *book.Book
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
}

func NewServer(b *book.Book, logger *zap.SugaredLogger) *Server {
	s := &Server{
		book:   b,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		log:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orderbook", s.handleOrderbook).Methods("GET")
	api.HandleFunc("/trades", s.handleTrades).Methods("GET")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the CORS-wrapped root handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start runs the WebSocket hub and serves HTTP on addr. Blocks.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api_listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Notify implements sim.Renderer: each tick frame fans out to subscribed
// WebSocket clients.
func (s *Server) Notify(f sim.Frame) {
	now := time.Now().UnixMilli()

	s.hub.BroadcastToChannel(ChannelTicker, TickerUpdate{
		Type:      "ticker",
		Tick:      f.Tick,
		Fair:      f.FairPrice,
		Bid:       f.Bid,
		Ask:       f.Ask,
		Mid:       f.Mid,
		Timestamp: now,
	})
	s.hub.BroadcastToChannel(ChannelDepth, DepthUpdate{
		Type:      "depth",
		Bids:      toLevelInfos(f.Bids),
		Asks:      toLevelInfos(f.Asks),
		Timestamp: now,
	})
	if len(f.Trades) > 0 {
		s.hub.BroadcastToChannel(ChannelTrades, TradesUpdate{
			Type:      "trades",
			Trades:    toTradeInfos(f.Trades),
			Timestamp: now,
		})
	}
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, OrderbookResponse{
		Bids:      toLevelInfos(s.book.BidLevels()),
		Asks:      toLevelInfos(s.book.AskLevels()),
		BidCount:  s.book.BidCount(),
		AskCount:  s.book.AskCount(),
		BidVolume: s.book.BidVolume(),
		AskVolume: s.book.AskVolume(),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	respondJSON(w, toTradeInfos(s.book.RecentTrades(limit)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	bid := s.book.BidHistory()
	ask := s.book.AskHistory()
	mid := s.book.MidHistory()

	respondJSON(w, HistoryResponse{
		Bid:              bid,
		Ask:              ask,
		Mid:              mid,
		FirstSampleIndex: s.book.FirstSampleIndex(),
		TotalSamples:     s.book.TotalSamples(),
		Scale:            chartScale(bid, ask, mid),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	bid, bidOK := s.book.BestBid()
	ask, askOK := s.book.BestAsk()
	mid, midOK := s.book.Mid()

	respondJSON(w, StatsResponse{
		Bid:          book.Sample{Price: bid, Valid: bidOK},
		Ask:          book.Sample{Price: ask, Valid: askOK},
		Mid:          book.Sample{Price: mid, Valid: midOK},
		BidCount:     s.book.BidCount(),
		AskCount:     s.book.AskCount(),
		BidVolume:    s.book.BidVolume(),
		AskVolume:    s.book.AskVolume(),
		TradeCount:   s.book.TradeCount(),
		TotalSamples: s.book.TotalSamples(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UnixMilli(),
	})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
