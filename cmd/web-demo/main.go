// Command web-demo serves a websocket endpoint that plays battles
// live, streaming a board snapshot after every executed action so a
// browser client can render the battle as it unfolds.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/willmusolf/pvpocket-sub001/internal/ai"
	"github.com/willmusolf/pvpocket-sub001/internal/battle"
	"github.com/willmusolf/pvpocket-sub001/internal/card"
	"github.com/willmusolf/pvpocket-sub001/internal/config"
)

var configPath = flag.String("config", "config/config.yaml", "path to configuration file")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for demo
	},
}

// WSMessage is the envelope for both directions of the demo protocol.
type WSMessage struct {
	Type string `json:"type"`
	Seed int64  `json:"seed,omitempty"`
	Data any    `json:"data,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	running bool

	decks  [2][]*card.Card
	delay  time.Duration
	logger *zap.Logger
}

func newHub(decks [2][]*card.Card, delay time.Duration, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		decks:      decks,
		delay:      delay,
		logger:     logger,
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("client unregistered")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) handleMessage(client *Client, msg WSMessage) {
	switch msg.Type {
	case "start_battle":
		h.mu.Lock()
		if h.running {
			h.mu.Unlock()
			h.sendError(client, "a battle is already running")
			return
		}
		h.running = true
		h.mu.Unlock()

		seed := msg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		go h.playBattle(seed)

	default:
		h.sendError(client, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// playBattle runs one battle with strategic agents, broadcasting a
// snapshot frame after every action.
func (h *Hub) playBattle(seed int64) {
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	g := battle.New(h.decks[0], h.decks[1], battle.Config{
		Seed:    seed,
		SeedSet: true,
		Logger:  h.logger,
	})

	agents := make([]ai.Agent, 2)
	for i := 0; i < 2; i++ {
		agent, err := ai.NewStrategicAI(i, seed, ai.PersonalityBalanced, h.logger)
		if err != nil {
			h.broadcastMessage("error", err.Error())
			return
		}
		agents[i] = agent
	}

	if err := g.StartBattle(); err != nil {
		h.broadcastMessage("error", err.Error())
		return
	}
	h.broadcastMessage("battle_state", g.Snapshot())

	const maxActions = 2000
	for i := 0; i < maxActions && !g.IsBattleOver(); i++ {
		actor := g.CurrentPlayer()
		if g.Phase() == battle.PhaseForcedSelection {
			actor = g.ForcedSelectionPlayer()
		}
		action, err := agents[actor].ChooseAction(g)
		if err != nil {
			h.broadcastMessage("error", err.Error())
			return
		}
		if ok, reason := g.ExecuteAction(action); !ok {
			// Push the turn forward rather than stalling the stream.
			h.logger.Warn("demo action rejected", zap.String("reason", reason))
			if ok, _ := g.ExecuteAction(battle.NewAction(battle.ActionEndTurn, actor, nil)); !ok {
				h.broadcastMessage("error", "battle stalled")
				return
			}
		}
		h.broadcastMessage("battle_state", g.Snapshot())
		time.Sleep(h.delay)
	}

	if result := g.Result(); result != nil {
		h.broadcastMessage("battle_result", result.ToMap())
	}
}

func (h *Hub) broadcastMessage(msgType string, data any) {
	payload, err := json.Marshal(WSMessage{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("marshal broadcast", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

func (h *Hub) sendError(client *Client, text string) {
	payload, _ := json.Marshal(WSMessage{Type: "error", Data: text})
	select {
	case client.send <- payload:
	default:
	}
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			hub.logger.Warn("bad client message", zap.Error(err))
			continue
		}

		hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump(hub)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	set, err := card.LoadSet(cfg.Data.CardFile, logger)
	if err != nil {
		logger.Fatal("loading cards", zap.Error(err))
	}
	decks, err := set.LoadDecks(cfg.Data.DeckFile)
	if err != nil {
		logger.Fatal("loading decks", zap.Error(err))
	}
	var pair [2][]*card.Card
	i := 0
	for name, deck := range decks {
		if i >= 2 {
			break
		}
		logger.Info("demo deck selected", zap.String("deck", name))
		pair[i] = deck
		i++
	}
	if i < 2 {
		logger.Fatal("need at least two decks for the demo")
	}

	hub := newHub(pair, time.Duration(cfg.Demo.ActionDelayMS)*time.Millisecond, logger)
	go hub.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})

	logger.Info("web demo listening",
		zap.String("address", cfg.Demo.Address),
		zap.String("endpoint", "/ws"),
	)
	if err := http.ListenAndServe(cfg.Demo.Address, nil); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
