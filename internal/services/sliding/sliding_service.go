package services

import (
	"fmt"
	"log"

	"github.com/nazotoki-works/puzzle-games-backend/internal/database"
	"github.com/nazotoki-works/puzzle-games-backend/internal/game/sliding"
	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// SlidingPuzzleService はスライドパズル関連のビジネスロジックを定義するインターフェースです。
type SlidingPuzzleService interface {
	ListActive() ([]models.SlidingPuzzle, error)
	GetByID(puzzleID string) (*models.SlidingPuzzle, error)
	SubmitScore(puzzleID string, req *models.SubmitScoreRequest) (*models.SlidingPuzzleScore, error)
	Leaderboard(puzzleID string, limit int) ([]models.LeaderboardEntry, error)

	// AttachHub はスコア受理時にランキング配信を通知するハブを設定します。
	AttachHub(hub *LeaderboardHub)
}

// slidingPuzzleServiceImpl はSlidingPuzzleServiceインターフェースの実装です。
type slidingPuzzleServiceImpl struct {
	puzzleRepo database.SlidingPuzzleRepository
	hub        *LeaderboardHub
}

// NewSlidingPuzzleService はSlidingPuzzleServiceの新しいインスタンスを作成します。
func NewSlidingPuzzleService(puzzleRepo database.SlidingPuzzleRepository) SlidingPuzzleService {
	return &slidingPuzzleServiceImpl{puzzleRepo: puzzleRepo}
}

// AttachHub はランキング配信用のハブを設定します。
func (s *slidingPuzzleServiceImpl) AttachHub(hub *LeaderboardHub) {
	s.hub = hub
}

// ListActive は有効なパズルの一覧を取得します。
func (s *slidingPuzzleServiceImpl) ListActive() ([]models.SlidingPuzzle, error) {
	return s.puzzleRepo.ListActivePuzzles()
}

// GetByID は指定されたIDのパズルを取得します（存在しない場合は nil, nil）。
func (s *slidingPuzzleServiceImpl) GetByID(puzzleID string) (*models.SlidingPuzzle, error) {
	return s.puzzleRepo.GetPuzzleByID(puzzleID)
}

// SubmitScore は1回のプレイ結果を受理して保存します。
//
// NOTE: Completed はクライアントの自己申告であり、申告された手数が実際に
// 達成可能かどうかのサーバー側検証は行いません。並び替えゲームの採点経路と
// 比べて保証の弱い設計であることは既知の制限です。
func (s *slidingPuzzleServiceImpl) SubmitScore(puzzleID string, req *models.SubmitScoreRequest) (*models.SlidingPuzzleScore, error) {
	puzzle, err := s.puzzleRepo.GetPuzzleByID(puzzleID)
	if err != nil {
		return nil, err
	}
	if puzzle == nil {
		return nil, nil
	}

	score, err := s.puzzleRepo.CreateScore(puzzleID, req)
	if err != nil {
		return nil, fmt.Errorf("スコアの保存に失敗しました: %w", err)
	}

	log.Printf("[SlidingPuzzleService] パズル %s のスコアを保存しました: player=%s moves=%d time=%d",
		puzzleID, score.PlayerName, score.Moves, score.TimeSpent)

	// ランキングのライブ配信に新着スコアを通知する
	if s.hub != nil {
		s.hub.NotifyScore(puzzleID)
	}
	return score, nil
}

// Leaderboard は指定パズルのランキングを計算して返します。
// 順位は保存せず、保存済みスコアから読み取りのたびに計算します。
func (s *slidingPuzzleServiceImpl) Leaderboard(puzzleID string, limit int) ([]models.LeaderboardEntry, error) {
	scores, err := s.puzzleRepo.ListScoresByPuzzleID(puzzleID)
	if err != nil {
		return nil, err
	}
	return sliding.Rank(scores, limit), nil
}
