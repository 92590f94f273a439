package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// GameRepository はゲーム関連のデータベース操作を定義するインターフェースです。
type GameRepository interface {
	// CreateGame は新しいゲームレコードを作成します
	CreateGame(tx *sql.Tx, game *models.Game) error

	// GetGameByID は指定されたIDのゲームを取得します（存在しない場合は nil, nil）
	GetGameByID(gameID string) (*models.Game, error)

	// ListPublishedGames は公開済みのゲームを新しい順に取得します
	ListPublishedGames(limit, offset int) ([]models.Game, error)

	// ListGamesByCreator は指定した作成者のゲームを非公開も含めて取得します
	ListGamesByCreator(creatorID string, limit, offset int) ([]models.Game, error)

	// UpdatePublishStatus は作成者本人のゲームの公開状態を更新します
	UpdatePublishStatus(gameID, creatorID string, isPublished bool) error

	// IncrementPlayCount はプレイ回数を1増やします
	IncrementPlayCount(tx *sql.Tx, gameID string) error

	// UpdateLikeCount はいいね数を増減します（0未満にはなりません）
	UpdateLikeCount(gameID string, delta int) error

	// GetTemplateByID はゲームテンプレートを取得します（存在しない場合は nil, nil）
	GetTemplateByID(templateID string) (*models.GameTemplate, error)

	// ListTemplates は全てのゲームテンプレートを取得します
	ListTemplates() ([]models.GameTemplate, error)

	// CreateAttempt は採点済みの挑戦レコードを保存します
	CreateAttempt(tx *sql.Tx, attempt *models.GameAttempt) error
}

// gameRepositoryImpl はGameRepositoryインターフェースの実装です。
type gameRepositoryImpl struct {
	db *sql.DB
}

// NewGameRepository はGameRepositoryの新しいインスタンスを作成します。
func NewGameRepository(db *sql.DB) GameRepository {
	return &gameRepositoryImpl{db: db}
}

const gameColumns = `id, name, description, thumbnail_image, game_template_id, creator_id,
	is_published, play_count, like_count, game_json, created_at, updated_at`

// scanGame は1行分のゲームレコードをスキャンします。
func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var game models.Game
	var thumbnail sql.NullString
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Description,
		&thumbnail,
		&game.GameTemplateID,
		&game.CreatorID,
		&game.IsPublished,
		&game.PlayCount,
		&game.LikeCount,
		&game.GameJSON,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if thumbnail.Valid {
		game.ThumbnailImage = thumbnail.String
	}
	return &game, nil
}

// CreateGame は新しいゲームレコードを作成します。
func (r *gameRepositoryImpl) CreateGame(tx *sql.Tx, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	now := time.Now()
	game.CreatedAt = now
	game.UpdatedAt = now

	query := `INSERT INTO games
		(id, name, description, thumbnail_image, game_template_id, creator_id, is_published, play_count, like_count, game_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8, $9, $10)`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, game.ID, game.Name, game.Description, game.ThumbnailImage,
			game.GameTemplateID, game.CreatorID, game.IsPublished, game.GameJSON, now, now)
	} else {
		_, err = r.db.Exec(query, game.ID, game.Name, game.Description, game.ThumbnailImage,
			game.GameTemplateID, game.CreatorID, game.IsPublished, game.GameJSON, now, now)
	}
	if err != nil {
		return fmt.Errorf("ゲームレコードの作成に失敗しました: %w", err)
	}
	return nil
}

// GetGameByID は指定されたIDのゲームを取得します。
func (r *gameRepositoryImpl) GetGameByID(gameID string) (*models.Game, error) {
	row := r.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = $1`, gameID)
	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil // ゲームが存在しない場合はnilを返す
	}
	if err != nil {
		return nil, fmt.Errorf("ゲームの取得に失敗しました: %w", err)
	}
	return game, nil
}

// listGames は条件付きのゲーム一覧クエリを実行する共通処理です。
func (r *gameRepositoryImpl) listGames(query string, args ...interface{}) ([]models.Game, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ゲーム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("ゲームレコードのスキャンに失敗しました: %w", err)
		}
		games = append(games, *game)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ゲーム一覧の行イテレーション中にエラーが発生しました: %w", err)
	}
	return games, nil
}

// ListPublishedGames は公開済みのゲームを新しい順に取得します。
func (r *gameRepositoryImpl) ListPublishedGames(limit, offset int) ([]models.Game, error) {
	return r.listGames(
		`SELECT `+gameColumns+` FROM games WHERE is_published = true ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

// ListGamesByCreator は指定した作成者のゲームを非公開も含めて取得します。
func (r *gameRepositoryImpl) ListGamesByCreator(creatorID string, limit, offset int) ([]models.Game, error) {
	return r.listGames(
		`SELECT `+gameColumns+` FROM games WHERE creator_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		creatorID, limit, offset,
	)
}

// UpdatePublishStatus は作成者本人のゲームの公開状態を更新します。
// 他人のゲームは更新対象にならず、エラーを返します。
func (r *gameRepositoryImpl) UpdatePublishStatus(gameID, creatorID string, isPublished bool) error {
	result, err := r.db.Exec(
		`UPDATE games SET is_published = $1, updated_at = NOW() WHERE id = $2 AND creator_id = $3`,
		isPublished, gameID, creatorID,
	)
	if err != nil {
		return fmt.Errorf("公開状態の更新に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ゲームが存在しないか、作成者ではありません")
	}
	return nil
}

// IncrementPlayCount はプレイ回数を1増やします。
func (r *gameRepositoryImpl) IncrementPlayCount(tx *sql.Tx, gameID string) error {
	query := `UPDATE games SET play_count = play_count + 1, updated_at = NOW() WHERE id = $1`
	var err error
	if tx != nil {
		_, err = tx.Exec(query, gameID)
	} else {
		_, err = r.db.Exec(query, gameID)
	}
	if err != nil {
		return fmt.Errorf("プレイ回数の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateLikeCount はいいね数を増減します。
func (r *gameRepositoryImpl) UpdateLikeCount(gameID string, delta int) error {
	_, err := r.db.Exec(
		`UPDATE games SET like_count = GREATEST(like_count + $1, 0), updated_at = NOW() WHERE id = $2`,
		delta, gameID,
	)
	if err != nil {
		return fmt.Errorf("いいね数の更新に失敗しました: %w", err)
	}
	return nil
}

// GetTemplateByID はゲームテンプレートを取得します。
func (r *gameRepositoryImpl) GetTemplateByID(templateID string) (*models.GameTemplate, error) {
	var template models.GameTemplate
	err := r.db.QueryRow(
		`SELECT id, name, slug FROM game_templates WHERE id = $1`, templateID,
	).Scan(&template.ID, &template.Name, &template.Slug)
	if err == sql.ErrNoRows {
		return nil, nil // テンプレートが存在しない場合はnilを返す
	}
	if err != nil {
		return nil, fmt.Errorf("ゲームテンプレートの取得に失敗しました: %w", err)
	}
	return &template, nil
}

// ListTemplates は全てのゲームテンプレートを取得します。
func (r *gameRepositoryImpl) ListTemplates() ([]models.GameTemplate, error) {
	rows, err := r.db.Query(`SELECT id, name, slug FROM game_templates ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("ゲームテンプレート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var templates []models.GameTemplate
	for rows.Next() {
		var t models.GameTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("ゲームテンプレートのスキャンに失敗しました: %w", err)
		}
		templates = append(templates, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ゲームテンプレート一覧のイテレーション中にエラーが発生しました: %w", err)
	}
	return templates, nil
}

// CreateAttempt は採点済みの挑戦レコードを保存します。
func (r *gameRepositoryImpl) CreateAttempt(tx *sql.Tx, attempt *models.GameAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	attempt.CreatedAt = time.Now()

	query := `INSERT INTO game_attempts
		(id, game_id, player_name, score, max_score, correct_count, is_correct, time_taken_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var timeTaken sql.NullInt64
	if attempt.TimeTakenSeconds != nil {
		timeTaken = sql.NullInt64{Int64: int64(*attempt.TimeTakenSeconds), Valid: true}
	}

	var err error
	if tx != nil {
		_, err = tx.Exec(query, attempt.ID, attempt.GameID, attempt.PlayerName, attempt.Score,
			attempt.MaxScore, attempt.CorrectCount, attempt.IsCorrect, timeTaken, attempt.CreatedAt)
	} else {
		_, err = r.db.Exec(query, attempt.ID, attempt.GameID, attempt.PlayerName, attempt.Score,
			attempt.MaxScore, attempt.CorrectCount, attempt.IsCorrect, timeTaken, attempt.CreatedAt)
	}
	if err != nil {
		return fmt.Errorf("挑戦レコードの保存に失敗しました: %w", err)
	}
	return nil
}
