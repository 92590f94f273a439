package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/nazotoki-works/puzzle-games-backend/internal/database"
)

// PublicHandler は認証不要のユーティリティエンドポイントを処理します。
type PublicHandler struct {
	dbService *database.DatabaseService
}

// NewPublicHandler は新しい PublicHandler インスタンスを作成します。
func NewPublicHandler(dbService *database.DatabaseService) *PublicHandler {
	return &PublicHandler{dbService: dbService}
}

// Health はサーバーとデータベースの稼働状態を返すハンドラーです。
// GET /health
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.dbService.Ping(); err != nil {
		log.Printf("[PublicHandler] Health check failed: %v", err)
		WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"status":  "unhealthy",
			"error":   "データベースに接続できません",
		})
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
