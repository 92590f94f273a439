package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nazotoki-works/puzzle-games-backend/internal/database"
	"github.com/nazotoki-works/puzzle-games-backend/internal/game/rankorder"
	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// GameService は並び替えゲーム関連のビジネスロジックを定義するインターフェースです。
// 採点と投影の計算自体は internal/game/rankorder の純粋関数に委譲し、
// ここでは永続化との橋渡しだけを行います。
type GameService interface {
	CreateGame(creatorID string, req *models.CreateGameRequest) (*models.Game, error)
	GetGameByID(gameID, viewerID string) (*models.Game, error)
	GetPlayableByID(gameID string) (*models.RankOrderPlayable, error)
	SubmitAnswers(gameID string, submission *models.RankOrderSubmission) (*models.RankOrderResult, error)
	ListPublished(limit, offset int) ([]models.Game, error)
	ListByCreator(creatorID string, limit, offset int) ([]models.Game, error)
	UpdatePublishStatus(gameID, userID string, isPublish bool) error
	AddPlayCount(gameID string) error
	SetLike(gameID string, isLike bool) error
	ListTemplates() ([]models.GameTemplate, error)
}

// gameServiceImpl はGameServiceインターフェースの実装です。
type gameServiceImpl struct {
	gameRepo database.GameRepository
}

// NewGameService はGameServiceの新しいインスタンスを作成します。
func NewGameService(gameRepo database.GameRepository) GameService {
	return &gameServiceImpl{gameRepo: gameRepo}
}

// CreateGame は新しいゲームを作成します。
// game_json の定義データはエンジンのバリデーションを通過したものだけを保存します。
// 検証は作成時の一度きりで、以降の採点は定義が正しいことを前提にします。
func (s *gameServiceImpl) CreateGame(creatorID string, req *models.CreateGameRequest) (*models.Game, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("ゲーム名は必須です")
	}

	// ゲームテンプレートの存在確認
	template, err := s.gameRepo.GetTemplateByID(req.GameTemplateID)
	if err != nil {
		return nil, fmt.Errorf("ゲームテンプレートの確認に失敗しました: %w", err)
	}
	if template == nil {
		return nil, fmt.Errorf("ゲームテンプレートが見つかりません")
	}

	// 定義データの検証（正解位置が1..Nの連番であることなど）
	var data models.RankOrderData
	if err := json.Unmarshal(req.GameJSON, &data); err != nil {
		return nil, fmt.Errorf("ゲームデータのパースに失敗しました: %w", err)
	}
	if err := rankorder.ValidateData(&data); err != nil {
		return nil, fmt.Errorf("ゲームデータの検証に失敗しました: %w", err)
	}

	game := &models.Game{
		Name:           req.Name,
		Description:    req.Description,
		ThumbnailImage: req.ThumbnailImage,
		GameTemplateID: req.GameTemplateID,
		CreatorID:      creatorID,
		IsPublished:    req.IsPublish,
		GameJSON:       req.GameJSON,
	}
	if err := s.gameRepo.CreateGame(nil, game); err != nil {
		return nil, err
	}

	log.Printf("[GameService] ユーザー %s の新しいゲームが作成されました: %s", creatorID, game.ID)
	return game, nil
}

// GetGameByID は指定されたIDのゲームを取得します。
// 作成者本人以外には正解を含む game_json を渡さず、シャッフル済みの
// プレイ用ビューに差し替えて返します（ゲームが存在しない場合は nil, nil）。
func (s *gameServiceImpl) GetGameByID(gameID, viewerID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGameByID(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}

	if viewerID != "" && viewerID == game.CreatorID {
		return game, nil
	}

	playable, err := s.playableFromGame(game)
	if err != nil {
		return nil, err
	}
	playableJSON, err := json.Marshal(playable)
	if err != nil {
		return nil, fmt.Errorf("プレイ用ビューのエンコードに失敗しました: %w", err)
	}
	game.GameJSON = playableJSON
	return game, nil
}

// GetPlayableByID はプレイ用のゲームビューを取得します。
func (s *gameServiceImpl) GetPlayableByID(gameID string) (*models.RankOrderPlayable, error) {
	game, err := s.gameRepo.GetGameByID(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}
	return s.playableFromGame(game)
}

// playableFromGame は保存済みの定義データからプレイ用ビューを生成します。
func (s *gameServiceImpl) playableFromGame(game *models.Game) (*models.RankOrderPlayable, error) {
	var data models.RankOrderData
	if err := json.Unmarshal(game.GameJSON, &data); err != nil {
		return nil, fmt.Errorf("保存済みゲームデータのパースに失敗しました: %w", err)
	}
	// rngをnilで渡すと呼び出しごとに異なる並びになる
	playable := rankorder.Playable(&data, nil)
	return &playable, nil
}

// SubmitAnswers は回答を採点し、挑戦レコードを保存して結果を返します。
// プレイ回数の加算はここでは行わず、play-count エンドポイントに一本化しています。
// 間違った回答は正常な採点結果（isCorrect=false）であり、エラーにはなりません。
func (s *gameServiceImpl) SubmitAnswers(gameID string, submission *models.RankOrderSubmission) (*models.RankOrderResult, error) {
	game, err := s.gameRepo.GetGameByID(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}

	var data models.RankOrderData
	if err := json.Unmarshal(game.GameJSON, &data); err != nil {
		return nil, fmt.Errorf("保存済みゲームデータのパースに失敗しました: %w", err)
	}

	result := rankorder.CheckAnswers(&data, submission)

	attempt := &models.GameAttempt{
		GameID:           gameID,
		PlayerName:       submission.PlayerName,
		Score:            result.Score,
		MaxScore:         result.MaxScore,
		CorrectCount:     result.CorrectCount,
		IsCorrect:        result.IsCorrect,
		TimeTakenSeconds: submission.TimeTakenSeconds,
	}
	if err := s.gameRepo.CreateAttempt(nil, attempt); err != nil {
		return nil, fmt.Errorf("挑戦レコードの保存に失敗しました: %w", err)
	}

	log.Printf("[GameService] ゲーム %s の回答を採点しました: score=%d/%d correct=%v",
		gameID, result.Score, result.MaxScore, result.IsCorrect)
	return &result, nil
}

// ListPublished は公開済みのゲーム一覧を取得します。
// 一覧には正解を含む game_json を載せません。定義が必要な場合は個別取得を
// 使います（作成者以外にはプレイ用ビューへ差し替えて返します）。
func (s *gameServiceImpl) ListPublished(limit, offset int) ([]models.Game, error) {
	games, err := s.gameRepo.ListPublishedGames(limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range games {
		games[i].GameJSON = nil
	}
	return games, nil
}

// ListByCreator は作成者本人のゲーム一覧を取得します（非公開も含む）。
func (s *gameServiceImpl) ListByCreator(creatorID string, limit, offset int) ([]models.Game, error) {
	return s.gameRepo.ListGamesByCreator(creatorID, limit, offset)
}

// UpdatePublishStatus はゲームの公開状態を更新します。作成者本人のみ可能です。
func (s *gameServiceImpl) UpdatePublishStatus(gameID, userID string, isPublish bool) error {
	return s.gameRepo.UpdatePublishStatus(gameID, userID, isPublish)
}

// AddPlayCount はプレイ回数を1増やします。
func (s *gameServiceImpl) AddPlayCount(gameID string) error {
	return s.gameRepo.IncrementPlayCount(nil, gameID)
}

// SetLike はいいね数を増減します。
func (s *gameServiceImpl) SetLike(gameID string, isLike bool) error {
	delta := 1
	if !isLike {
		delta = -1
	}
	return s.gameRepo.UpdateLikeCount(gameID, delta)
}

// ListTemplates はゲームテンプレートの一覧を取得します。
func (s *gameServiceImpl) ListTemplates() ([]models.GameTemplate, error) {
	return s.gameRepo.ListTemplates()
}
