package services

import (
	"testing"
	"time"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// stubPuzzleService はハブのテスト用に空のランキングを返すスタブです。
type stubPuzzleService struct{}

func (s *stubPuzzleService) ListActive() ([]models.SlidingPuzzle, error) { return nil, nil }

func (s *stubPuzzleService) GetByID(puzzleID string) (*models.SlidingPuzzle, error) {
	return nil, nil
}

func (s *stubPuzzleService) SubmitScore(puzzleID string, req *models.SubmitScoreRequest) (*models.SlidingPuzzleScore, error) {
	return nil, nil
}

func (s *stubPuzzleService) Leaderboard(puzzleID string, limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func (s *stubPuzzleService) AttachHub(hub *LeaderboardHub) {}

// TestLeaderboardHub_UnregisterAfterShutdown は停止後の登録解除が
// ブロックしないことをテストします（イベントループ終了後にreadPumpの
// 後始末が走ってもハングしない）。
func TestLeaderboardHub_UnregisterAfterShutdown(t *testing.T) {
	hub := NewLeaderboardHub(&stubPuzzleService{})
	hub.Shutdown()

	done := make(chan struct{})
	go func() {
		hub.unregisterClient(&Client{PuzzleID: "puzzle-1", Send: make(chan []byte, 1)})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregisterClient should return after the hub is shut down")
	}
}
