package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
	services "github.com/nazotoki-works/puzzle-games-backend/internal/services/game"
)

// GameHandler は並び替えゲーム関連のHTTPリクエストを処理します。
type GameHandler struct {
	gameService services.GameService
}

// NewGameHandler は新しい GameHandler インスタンスを作成します。
func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// WriteErrorResponse はエラーレスポンスをJSON形式で書き込みます。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSONResponse はJSONレスポンスを書き込みます。
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// parsePagination はlimit/offsetクエリパラメータを解析します（デフォルト20件、最大100件）。
func parsePagination(r *http.Request) (int, int) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// CreateGame は新しいゲームを作成するハンドラーです。
// POST /api/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID, err := ExtractUserIDFromContext(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return
	}

	var req models.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}

	game, err := h.gameService.CreateGame(userID, &req)
	if err != nil {
		log.Printf("[GameHandler] Failed to create game for user %s: %v", userID, err)
		WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

// ListGames は公開済みのゲーム一覧を取得するハンドラーです。
// GET /api/games?limit=20&offset=0
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	games, err := h.gameService.ListPublished(limit, offset)
	if err != nil {
		log.Printf("[GameHandler] Failed to list games: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ゲーム一覧の取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"games":   games,
	})
}

// ListMyGames は認証ユーザー自身のゲーム一覧を取得するハンドラーです（非公開も含む）。
// GET /api/games/mine
func (h *GameHandler) ListMyGames(w http.ResponseWriter, r *http.Request) {
	userID, err := ExtractUserIDFromContext(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return
	}

	limit, offset := parsePagination(r)
	games, err := h.gameService.ListByCreator(userID, limit, offset)
	if err != nil {
		log.Printf("[GameHandler] Failed to list games for user %s: %v", userID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ゲーム一覧の取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"games":   games,
	})
}

// ListTemplates はゲームテンプレートの一覧を取得するハンドラーです。
// GET /api/games/templates
func (h *GameHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.gameService.ListTemplates()
	if err != nil {
		log.Printf("[GameHandler] Failed to list templates: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ゲームテンプレート一覧の取得に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"templates": templates,
	})
}

// GetGame はゲームを1件取得するハンドラーです。
// 作成者本人以外には正解を含まないプレイ用ビューが返ります。
// GET /api/games/{gameID}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if gameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "ゲームIDが必要です")
		return
	}

	// 任意認証: トークンがあれば作成者チェックに使う
	viewerID, _ := ExtractUserIDFromContext(r)

	game, err := h.gameService.GetGameByID(gameID, viewerID)
	if err != nil {
		log.Printf("[GameHandler] Failed to get game %s: %v", gameID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ゲームの取得に失敗しました")
		return
	}
	if game == nil {
		WriteErrorResponse(w, http.StatusNotFound, "ゲームが見つかりません")
		return
	}
	// 非公開のゲームは作成者本人しか閲覧できない
	if !game.IsPublished && viewerID != game.CreatorID {
		WriteErrorResponse(w, http.StatusNotFound, "ゲームが見つかりません")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

// GetPlayable はプレイ用のゲームビューを取得するハンドラーです。
// アイテムはシャッフル済みで、正解位置は含まれません。
// GET /api/games/{gameID}/play
func (h *GameHandler) GetPlayable(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if gameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "ゲームIDが必要です")
		return
	}

	playable, err := h.gameService.GetPlayableByID(gameID)
	if err != nil {
		log.Printf("[GameHandler] Failed to build playable view for game %s: %v", gameID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ゲームの取得に失敗しました")
		return
	}
	if playable == nil {
		WriteErrorResponse(w, http.StatusNotFound, "ゲームが見つかりません")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"game":    playable,
	})
}

// SubmitAnswers は回答を採点するハンドラーです。
// 間違った回答も正常なレスポンス（isCorrect=false）として返ります。
// POST /api/games/{gameID}/submit
func (h *GameHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if gameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "ゲームIDが必要です")
		return
	}

	var submission models.RankOrderSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}
	if len(submission.OrderedItemIDs) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "orderedItemsは必須です")
		return
	}

	result, err := h.gameService.SubmitAnswers(gameID, &submission)
	if err != nil {
		log.Printf("[GameHandler] Failed to score submission for game %s: %v", gameID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "採点に失敗しました")
		return
	}
	if result == nil {
		WriteErrorResponse(w, http.StatusNotFound, "ゲームが見つかりません")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// UpdatePublishStatus はゲームの公開状態を更新するハンドラーです。
// PATCH /api/games
func (h *GameHandler) UpdatePublishStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := ExtractUserIDFromContext(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return
	}

	var req models.UpdatePublishStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}
	if req.GameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "game_idは必須です")
		return
	}

	if err := h.gameService.UpdatePublishStatus(req.GameID, userID, req.IsPublish); err != nil {
		log.Printf("[GameHandler] Failed to update publish status of game %s: %v", req.GameID, err)
		WriteErrorResponse(w, http.StatusForbidden, err.Error())
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "公開状態を更新しました",
	})
}

// AddPlayCount はプレイ回数を加算するハンドラーです。
// POST /api/games/play-count
func (h *GameHandler) AddPlayCount(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePlayCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}
	if req.GameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "game_idは必須です")
		return
	}

	if err := h.gameService.AddPlayCount(req.GameID); err != nil {
		log.Printf("[GameHandler] Failed to update play count of game %s: %v", req.GameID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "プレイ回数の更新に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "プレイ回数を更新しました",
	})
}

// Like はいいねを付け外しするハンドラーです。
// POST /api/games/like
func (h *GameHandler) Like(w http.ResponseWriter, r *http.Request) {
	if _, err := ExtractUserIDFromContext(r); err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return
	}

	var req models.UpdateLikeCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "リクエストボディのパースに失敗しました")
		return
	}
	if req.GameID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "game_idは必須です")
		return
	}

	if err := h.gameService.SetLike(req.GameID, req.IsLike); err != nil {
		log.Printf("[GameHandler] Failed to update like count of game %s: %v", req.GameID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "いいねの更新に失敗しました")
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "いいねを更新しました",
	})
}
