package models

import "time"

// SlidingPuzzle は sliding_puzzles テーブルのレコードに対応する構造体です。
// IsActive はソフトデリート用のフラグです。
type SlidingPuzzle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	GridSize    int       `json:"gridSize"`
	Difficulty  string    `json:"difficulty"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SlidingPuzzleScore は sliding_puzzle_scores テーブルのレコードに対応する構造体です。
// 1回のプレイ結果を表します。Completed はクライアントの自己申告です。
type SlidingPuzzleScore struct {
	ID         string    `json:"id"`
	PuzzleID   string    `json:"puzzleId"`
	PlayerName string    `json:"playerName"`
	Moves      int       `json:"moves"`
	TimeSpent  int       `json:"timeSpent"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SubmitScoreRequest はスコア送信リクエスト用の構造体です。
// Completed は省略時 true として扱います。
type SubmitScoreRequest struct {
	PlayerName string `json:"playerName"`
	Moves      int    `json:"moves"`
	TimeSpent  int    `json:"timeSpent"`
	Completed  *bool  `json:"completed,omitempty"`
}

// LeaderboardEntry はランキング1行分の読み取り専用ビューです。
// Rank は読み取り時に毎回計算され、保存はされません。
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	Moves      int    `json:"moves"`
	TimeSpent  int    `json:"timeSpent"`
	Completed  bool   `json:"completed"`
}
