package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// SlidingPuzzleRepository はスライドパズル関連のデータベース操作を定義するインターフェースです。
type SlidingPuzzleRepository interface {
	// ListActivePuzzles は有効なパズルを新しい順に取得します
	ListActivePuzzles() ([]models.SlidingPuzzle, error)

	// GetPuzzleByID は指定されたIDのパズルを取得します（存在しない場合は nil, nil）
	GetPuzzleByID(puzzleID string) (*models.SlidingPuzzle, error)

	// CreateScore は1回のプレイ結果を保存します
	CreateScore(puzzleID string, req *models.SubmitScoreRequest) (*models.SlidingPuzzleScore, error)

	// ListScoresByPuzzleID は指定パズルの全スコアを登録順に取得します
	ListScoresByPuzzleID(puzzleID string) ([]models.SlidingPuzzleScore, error)
}

// slidingPuzzleRepositoryImpl はSlidingPuzzleRepositoryインターフェースの実装です。
type slidingPuzzleRepositoryImpl struct {
	db *sql.DB
}

// NewSlidingPuzzleRepository はSlidingPuzzleRepositoryの新しいインスタンスを作成します。
func NewSlidingPuzzleRepository(db *sql.DB) SlidingPuzzleRepository {
	return &slidingPuzzleRepositoryImpl{db: db}
}

// ListActivePuzzles は有効なパズルを新しい順に取得します。
func (r *slidingPuzzleRepositoryImpl) ListActivePuzzles() ([]models.SlidingPuzzle, error) {
	rows, err := r.db.Query(`
		SELECT id, title, description, image_url, grid_size, difficulty, category, is_active, created_at
		FROM sliding_puzzles
		WHERE is_active = true
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("パズル一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var puzzles []models.SlidingPuzzle
	for rows.Next() {
		puzzle, err := scanSlidingPuzzle(rows)
		if err != nil {
			return nil, fmt.Errorf("パズルレコードのスキャンに失敗しました: %w", err)
		}
		puzzles = append(puzzles, *puzzle)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("パズル一覧の行イテレーション中にエラーが発生しました: %w", err)
	}
	return puzzles, nil
}

// GetPuzzleByID は指定されたIDのパズルを取得します。
func (r *slidingPuzzleRepositoryImpl) GetPuzzleByID(puzzleID string) (*models.SlidingPuzzle, error) {
	row := r.db.QueryRow(`
		SELECT id, title, description, image_url, grid_size, difficulty, category, is_active, created_at
		FROM sliding_puzzles
		WHERE id = $1`, puzzleID)
	puzzle, err := scanSlidingPuzzle(row)
	if err == sql.ErrNoRows {
		return nil, nil // パズルが存在しない場合はnilを返す
	}
	if err != nil {
		return nil, fmt.Errorf("パズルの取得に失敗しました: %w", err)
	}
	return puzzle, nil
}

// scanSlidingPuzzle は1行分のパズルレコードをスキャンします。
func scanSlidingPuzzle(row interface{ Scan(...interface{}) error }) (*models.SlidingPuzzle, error) {
	var puzzle models.SlidingPuzzle
	var imageURL sql.NullString
	err := row.Scan(
		&puzzle.ID,
		&puzzle.Title,
		&puzzle.Description,
		&imageURL,
		&puzzle.GridSize,
		&puzzle.Difficulty,
		&puzzle.Category,
		&puzzle.IsActive,
		&puzzle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		puzzle.ImageURL = imageURL.String
	}
	return &puzzle, nil
}

// CreateScore は1回のプレイ結果を保存します。
// Completed が省略された場合は true として保存します。
func (r *slidingPuzzleRepositoryImpl) CreateScore(puzzleID string, req *models.SubmitScoreRequest) (*models.SlidingPuzzleScore, error) {
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	score := &models.SlidingPuzzleScore{
		ID:         uuid.New().String(),
		PuzzleID:   puzzleID,
		PlayerName: req.PlayerName,
		Moves:      req.Moves,
		TimeSpent:  req.TimeSpent,
		Completed:  completed,
		CreatedAt:  time.Now(),
	}

	_, err := r.db.Exec(`
		INSERT INTO sliding_puzzle_scores (id, puzzle_id, player_name, moves, time_spent, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		score.ID, score.PuzzleID, score.PlayerName, score.Moves, score.TimeSpent, score.Completed, score.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("スコアレコードの保存に失敗しました: %w", err)
	}
	return score, nil
}

// ListScoresByPuzzleID は指定パズルの全スコアを登録順に取得します。
// ランキングの計算自体はエンジン側（internal/game/sliding）で行うため、
// ここでは順位付けをせず、同値時の安定性のために登録順で返すだけにします。
func (r *slidingPuzzleRepositoryImpl) ListScoresByPuzzleID(puzzleID string) ([]models.SlidingPuzzleScore, error) {
	rows, err := r.db.Query(`
		SELECT id, puzzle_id, player_name, moves, time_spent, completed, created_at
		FROM sliding_puzzle_scores
		WHERE puzzle_id = $1
		ORDER BY created_at ASC`, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("スコア一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var scores []models.SlidingPuzzleScore
	for rows.Next() {
		var s models.SlidingPuzzleScore
		err := rows.Scan(&s.ID, &s.PuzzleID, &s.PlayerName, &s.Moves, &s.TimeSpent, &s.Completed, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("スコアレコードのスキャンに失敗しました: %w", err)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("スコア一覧の行イテレーション中にエラーが発生しました: %w", err)
	}
	return scores, nil
}
