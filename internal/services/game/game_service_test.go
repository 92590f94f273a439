package services

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// stubGameRepo はテスト用のインメモリGameRepository実装です。
// 1件のゲームだけを保持し、呼び出し回数を記録します。
type stubGameRepo struct {
	game           *models.Game
	template       *models.GameTemplate
	attempts       []*models.GameAttempt
	playCountCalls int
}

func (s *stubGameRepo) CreateGame(tx *sql.Tx, game *models.Game) error { return nil }

func (s *stubGameRepo) GetGameByID(gameID string) (*models.Game, error) {
	if s.game == nil || s.game.ID != gameID {
		return nil, nil
	}
	return s.game, nil
}

func (s *stubGameRepo) ListPublishedGames(limit, offset int) ([]models.Game, error) {
	if s.game == nil || !s.game.IsPublished {
		return nil, nil
	}
	return []models.Game{*s.game}, nil
}

func (s *stubGameRepo) ListGamesByCreator(creatorID string, limit, offset int) ([]models.Game, error) {
	if s.game == nil || s.game.CreatorID != creatorID {
		return nil, nil
	}
	return []models.Game{*s.game}, nil
}

func (s *stubGameRepo) UpdatePublishStatus(gameID, creatorID string, isPublished bool) error {
	return nil
}

func (s *stubGameRepo) IncrementPlayCount(tx *sql.Tx, gameID string) error {
	s.playCountCalls++
	return nil
}

func (s *stubGameRepo) UpdateLikeCount(gameID string, delta int) error { return nil }

func (s *stubGameRepo) GetTemplateByID(templateID string) (*models.GameTemplate, error) {
	return s.template, nil
}

func (s *stubGameRepo) ListTemplates() ([]models.GameTemplate, error) { return nil, nil }

func (s *stubGameRepo) CreateAttempt(tx *sql.Tx, attempt *models.GameAttempt) error {
	s.attempts = append(s.attempts, attempt)
	return nil
}

// newStoredGame は正解入りの定義データを持つ公開済みゲームを作成します。
func newStoredGame() *models.Game {
	timeLimit := 60
	data := models.RankOrderData{
		Title: "歴史の出来事を古い順に並べよう",
		Items: []models.RankOrderItem{
			{ID: "1", Content: "明治維新", CorrectPosition: 1},
			{ID: "2", Content: "終戦", CorrectPosition: 2},
		},
		TimeLimitSeconds: &timeLimit,
	}
	raw, _ := json.Marshal(data)
	return &models.Game{
		ID:          "game-1",
		Name:        "歴史クイズ",
		CreatorID:   "creator-1",
		IsPublished: true,
		GameJSON:    raw,
	}
}

// TestListPublished_HidesAnswers は公開一覧に正解入りの game_json が
// 載らないことをテストします。一覧は誰でも取得できるため、正解位置を
// 含む定義データをそのまま返してはいけません。
func TestListPublished_HidesAnswers(t *testing.T) {
	repo := &stubGameRepo{game: newStoredGame()}
	svc := NewGameService(repo)

	games, err := svc.ListPublished(20, 0)
	if err != nil {
		t.Fatalf("ListPublished returned an error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("Expected 1 game, but got %d", len(games))
	}
	if games[0].GameJSON != nil {
		t.Errorf("Expected game_json to be stripped from the published list, but got %s", games[0].GameJSON)
	}
}

// TestListByCreator_KeepsGameJSON は作成者本人の一覧には定義データが
// そのまま残ることをテストします（自分のゲームの正解は見えてよい）。
func TestListByCreator_KeepsGameJSON(t *testing.T) {
	repo := &stubGameRepo{game: newStoredGame()}
	svc := NewGameService(repo)

	games, err := svc.ListByCreator("creator-1", 20, 0)
	if err != nil {
		t.Fatalf("ListByCreator returned an error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("Expected 1 game, but got %d", len(games))
	}
	if games[0].GameJSON == nil {
		t.Error("Expected the creator's list to keep game_json.")
	}
}

// TestSubmitAnswers_DoesNotIncrementPlayCount は採点経路でプレイ回数が
// 加算されないことをテストします。加算は play-count エンドポイントだけが
// 行うため、両方で数えると1プレイが二重になります。
func TestSubmitAnswers_DoesNotIncrementPlayCount(t *testing.T) {
	repo := &stubGameRepo{game: newStoredGame()}
	svc := NewGameService(repo)

	result, err := svc.SubmitAnswers("game-1", &models.RankOrderSubmission{
		OrderedItemIDs: []string{"1", "2"},
	})
	if err != nil {
		t.Fatalf("SubmitAnswers returned an error: %v", err)
	}
	if result == nil || !result.IsCorrect {
		t.Fatalf("Expected a fully correct result, but got %+v", result)
	}
	if len(repo.attempts) != 1 {
		t.Errorf("Expected 1 attempt record, but got %d", len(repo.attempts))
	}
	if repo.playCountCalls != 0 {
		t.Errorf("Expected play count to be untouched by scoring, but it was incremented %d times", repo.playCountCalls)
	}
}
