package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/nazotoki-works/puzzle-games-backend/internal/game/sliding"
	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
	services "github.com/nazotoki-works/puzzle-games-backend/internal/services/sliding"
)

// WebSocketのアップグレーダー設定
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: 本番環境ではオリジンを検証すべき
	CheckOrigin: func(r *http.Request) bool {
		return true // 開発用にすべてのオリジンを許可
	},
}

// SlidingPuzzleHandler はスライドパズル関連のHTTPリクエストを処理します。
type SlidingPuzzleHandler struct {
	service services.SlidingPuzzleService
	hub     *services.LeaderboardHub
}

// NewSlidingPuzzleHandler は新しい SlidingPuzzleHandler インスタンスを作成します。
func NewSlidingPuzzleHandler(service services.SlidingPuzzleService, hub *services.LeaderboardHub) *SlidingPuzzleHandler {
	return &SlidingPuzzleHandler{
		service: service,
		hub:     hub,
	}
}

// ListPuzzles は有効なスライドパズルの一覧を取得するハンドラーです。
// GET /api/sliding-puzzles
func (h *SlidingPuzzleHandler) ListPuzzles(w http.ResponseWriter, r *http.Request) {
	puzzles, err := h.service.ListActive()
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to list puzzles: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "パズル一覧の取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"puzzles": puzzles,
	})
}

// GetPuzzle はスライドパズルを1件取得するハンドラーです。
// GET /api/sliding-puzzles/{puzzleID}
func (h *SlidingPuzzleHandler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzleID := mux.Vars(r)["puzzleID"]
	if puzzleID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "パズルIDが必要です")
		return
	}

	puzzle, err := h.service.GetByID(puzzleID)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to get puzzle %s: %v", puzzleID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "パズルの取得に失敗しました")
		return
	}
	if puzzle == nil {
		WriteErrorResponse(w, http.StatusNotFound, "パズルが見つかりません")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"puzzle":  puzzle,
	})
}

// SubmitScore は1回のプレイ結果を受理するハンドラーです。
// POST /api/sliding-puzzles/{puzzleID}/score
func (h *SlidingPuzzleHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	puzzleID := mux.Vars(r)["puzzleID"]
	if puzzleID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "パズルIDが必要です")
		return
	}

	var req models.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}
	if req.PlayerName == "" || len(req.PlayerName) > 50 {
		WriteErrorResponse(w, http.StatusBadRequest, "playerNameは1〜50文字で指定してください")
		return
	}
	if req.Moves <= 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "movesは正の整数で指定してください")
		return
	}
	if req.TimeSpent <= 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "timeSpentは正の整数で指定してください")
		return
	}

	score, err := h.service.SubmitScore(puzzleID, &req)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to submit score for puzzle %s: %v", puzzleID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "スコアの保存に失敗しました")
		return
	}
	if score == nil {
		WriteErrorResponse(w, http.StatusNotFound, "パズルが見つかりません")
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"score":   score,
	})
}

// GetLeaderboard は指定パズルのランキングを取得するハンドラーです。
// GET /api/sliding-puzzles/{puzzleID}/leaderboard?limit=10
func (h *SlidingPuzzleHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	puzzleID := mux.Vars(r)["puzzleID"]
	if puzzleID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "パズルIDが必要です")
		return
	}

	puzzle, err := h.service.GetByID(puzzleID)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to get puzzle %s: %v", puzzleID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "パズルの取得に失敗しました")
		return
	}
	if puzzle == nil {
		WriteErrorResponse(w, http.StatusNotFound, "パズルが見つかりません")
		return
	}

	limit := sliding.NormalizeLimit(r.URL.Query().Get("limit"))
	entries, err := h.service.Leaderboard(puzzleID, limit)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to build leaderboard for puzzle %s: %v", puzzleID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ランキングの取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"puzzleId":    puzzleID,
		"leaderboard": entries,
	})
}

// LiveLeaderboard はWebSocketにアップグレードしてランキングのライブ配信を開始します。
// GET /api/sliding-puzzles/{puzzleID}/leaderboard/live
func (h *SlidingPuzzleHandler) LiveLeaderboard(w http.ResponseWriter, r *http.Request) {
	puzzleID := mux.Vars(r)["puzzleID"]
	if puzzleID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "パズルIDが必要です")
		return
	}

	// アップグレード前に存在チェックを行う (アップグレード後はHTTPエラーを返せないため)
	puzzle, err := h.service.GetByID(puzzleID)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] Failed to get puzzle %s: %v", puzzleID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "パズルの取得に失敗しました")
		return
	}
	if puzzle == nil {
		WriteErrorResponse(w, http.StatusNotFound, "パズルが見つかりません")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SlidingPuzzleHandler] WebSocket upgrade failed for puzzle %s: %v", puzzleID, err)
		return
	}
	log.Printf("[SlidingPuzzleHandler] WebSocket connection established for puzzle %s", puzzleID)

	h.hub.RegisterClient(puzzleID, conn)
}
