package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nazotoki-works/puzzle-games-backend/internal/game/sliding"
)

// Client はランキング配信を購読している単一のWebSocketクライアントを表します。
type Client struct {
	PuzzleID string          // このクライアントが購読しているパズルのID
	Conn     *websocket.Conn // クライアントとの実際のWebSocketコネクション
	Send     chan []byte     // クライアントへメッセージを送信するためのバッファ付きチャネル
	closed   bool            // チャネルが閉じられたかどうかのフラグ
	mu       sync.Mutex      // closedフラグ保護用
}

// SafeSend は安全にチャネルにメッセージを送信します（closedチェック付き）
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false // 既に閉じられている
	}

	select {
	case c.Send <- message:
		return true // 送信成功
	default:
		return false // チャネルがフル
	}
}

// SafeClose は安全にチャネルを閉じます
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// LeaderboardHub はランキングのライブ配信を管理します。
// 新しいスコアが受理されるたびに、該当パズルの購読者へ最新のランキングを
// 送信します。アプリケーション内でシングルトンとして動作することが想定されます。
type LeaderboardHub struct {
	clients    map[string]map[*Client]bool // puzzleID -> 購読クライアントの集合
	register   chan *Client                // 新しいクライアント接続の登録リクエスト用チャネル
	unregister chan *Client                // クライアント切断の登録解除リクエスト用チャネル
	notify     chan string                 // 新着スコアがあったパズルIDを受け取るチャネル
	quit       chan struct{}               // シャットダウン用チャネル
	mu         sync.RWMutex                // clients マップへのアクセスを保護するためのRWMutex
	service    SlidingPuzzleService        // ランキングのスナップショット取得用
}

// NewLeaderboardHub は新しい LeaderboardHub インスタンスを作成し、
// そのメインイベントループをバックグラウンドで開始します。
func NewLeaderboardHub(service SlidingPuzzleService) *LeaderboardHub {
	hub := &LeaderboardHub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan string, 256), // スコア送信のバーストを考慮したバッファ
		quit:       make(chan struct{}),
		service:    service,
	}
	go hub.Run()
	return hub
}

// Run はハブのメインイベントループです。
func (h *LeaderboardHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.PuzzleID] == nil {
				h.clients[client.PuzzleID] = make(map[*Client]bool)
			}
			h.clients[client.PuzzleID][client] = true
			h.mu.Unlock()
			log.Printf("[LeaderboardHub] Client subscribed to puzzle %s", client.PuzzleID)

			// 購読直後に現在のランキングを送信する
			h.sendSnapshotTo(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if subscribers, ok := h.clients[client.PuzzleID]; ok {
				if _, exists := subscribers[client]; exists {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.clients, client.PuzzleID)
					}
				}
			}
			h.mu.Unlock()
			client.SafeClose()
			log.Printf("[LeaderboardHub] Client unsubscribed from puzzle %s", client.PuzzleID)

		case puzzleID := <-h.notify:
			h.broadcastSnapshot(puzzleID)

		case <-h.quit:
			return
		}
	}
}

// Shutdown はハブのイベントループを停止します。
func (h *LeaderboardHub) Shutdown() {
	close(h.quit)
}

// unregisterClient はクライアントの登録解除をハブに依頼します。
// ハブが停止済みの場合はブロックせずに戻ります。
func (h *LeaderboardHub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// NotifyScore は新着スコアの受理をハブに通知します。
// チャネルがフルの場合は通知を落とします（次のスコアで回復するため）。
func (h *LeaderboardHub) NotifyScore(puzzleID string) {
	select {
	case h.notify <- puzzleID:
	default:
		log.Printf("[LeaderboardHub] Notify channel is full, dropping update for puzzle %s", puzzleID)
	}
}

// snapshot は指定パズルの最新ランキングをJSONメッセージにエンコードします。
func (h *LeaderboardHub) snapshot(puzzleID string) ([]byte, error) {
	entries, err := h.service.Leaderboard(puzzleID, sliding.DefaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"type":        "leaderboard",
		"puzzleId":    puzzleID,
		"leaderboard": entries,
	})
}

// sendSnapshotTo は単一のクライアントに現在のランキングを送信します。
func (h *LeaderboardHub) sendSnapshotTo(client *Client) {
	message, err := h.snapshot(client.PuzzleID)
	if err != nil {
		log.Printf("[LeaderboardHub] Failed to build snapshot for puzzle %s: %v", client.PuzzleID, err)
		return
	}
	if !client.SafeSend(message) {
		log.Printf("[LeaderboardHub] Failed to send snapshot to client for puzzle %s", client.PuzzleID)
	}
}

// broadcastSnapshot は指定パズルの全購読者に最新のランキングを送信します。
func (h *LeaderboardHub) broadcastSnapshot(puzzleID string) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.clients[puzzleID]))
	for client := range h.clients[puzzleID] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	message, err := h.snapshot(puzzleID)
	if err != nil {
		log.Printf("[LeaderboardHub] Failed to build snapshot for puzzle %s: %v", puzzleID, err)
		return
	}
	for _, client := range subscribers {
		if !client.SafeSend(message) {
			log.Printf("[LeaderboardHub] Dropping slow client for puzzle %s", puzzleID)
		}
	}
}

// RegisterClient は新しいWebSocketコネクションをハブに登録し、
// 読み書きのゴルーチンを開始します。
func (h *LeaderboardHub) RegisterClient(puzzleID string, conn *websocket.Conn) {
	client := &Client{
		PuzzleID: puzzleID,
		Conn:     conn,
		Send:     make(chan []byte, 64),
	}

	go h.readPump(client)
	go client.writePump()

	h.register <- client
}

// readPump はクライアントからの読み取りを行います。
// 購読者からの入力は期待しないため、切断検知のためだけに読み続けます。
func (h *LeaderboardHub) readPump(client *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[LeaderboardHub] Panic in readPump for puzzle %s: %v", client.PuzzleID, r)
		}
		h.unregisterClient(client)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[LeaderboardHub] WebSocket unexpected close for puzzle %s: %v", client.PuzzleID, err)
			}
			return
		}
	}
}

// writePump は Send チャネルからのメッセージをWebSocketコネクションに書き込みます。
// クライアントごとにこのゴルーチンが動作します。
func (c *Client) writePump() {
	ticker := time.NewTicker(60 * time.Second)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Client] Panic in writePump for puzzle %s: %v", c.PuzzleID, r)
		}
		ticker.Stop()
		if c.Conn != nil {
			c.Conn.Close()
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// ハブがチャネルを閉じた場合 (クライアントの登録解除時など)
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Client] Error writing message for puzzle %s: %v", c.PuzzleID, err)
				return
			}

		case <-ticker.C:
			// ピングメッセージを定期的に送信してコネクションの生存確認
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
