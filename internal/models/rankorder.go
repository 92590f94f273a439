package models

import (
	"encoding/json"
	"time"
)

// RankOrderItem は並び替えゲームの1つのアイテムを表します。
// CorrectPosition は 1..N の連番で、ゲーム作成時に検証されます。
type RankOrderItem struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	ImageURL        string `json:"imageUrl,omitempty"`
	CorrectPosition int    `json:"correctPosition"`
}

// RankOrderData は並び替えゲームの正解を含む定義データです。
// games テーブルの game_json カラムにそのまま保存されます。
// 作成後は不変として扱い、派生ビューは常にコピーを返します。
type RankOrderData struct {
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Items            []RankOrderItem `json:"items"`
	TimeLimitSeconds *int            `json:"timeLimitSeconds,omitempty"`
	ShowImages       bool            `json:"showImages"`
}

// RankOrderPlayableItem は正解位置を取り除いたプレイヤー配信用のアイテムです。
type RankOrderPlayableItem struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// RankOrderPlayable はプレイヤーに配信するゲームビューです。
// 正解を含まず、アイテムはシャッフル済みの順序で入ります。永続化はしません。
type RankOrderPlayable struct {
	Items            []RankOrderPlayableItem `json:"items"`
	TimeLimitSeconds *int                    `json:"timeLimitSeconds,omitempty"`
}

// RankOrderSubmission はプレイヤーの回答提出です。
// OrderedItemIDs は定義のアイテムID集合の順列である必要はありません。
// 不明なIDはその位置で不正解として扱われます（エラーにはしません）。
type RankOrderSubmission struct {
	OrderedItemIDs   []string `json:"orderedItems"`
	TimeTakenSeconds *int     `json:"timeTaken,omitempty"`
	PlayerName       string   `json:"playerName,omitempty"`
}

// RankOrderResult は1回の提出に対する採点結果です。
// CorrectOrder はクライアント側の答え合わせ表示用に正解順をそのまま返します。
type RankOrderResult struct {
	Score        int             `json:"score"`
	MaxScore     int             `json:"maxScore"`
	CorrectOrder []RankOrderItem `json:"correctOrder"`
	UserOrder    []string        `json:"userOrder"`
	IsCorrect    bool            `json:"isCorrect"`
	CorrectCount int             `json:"correctCount"`
}

// Game は games テーブルのレコードに対応する構造体です。
// GameJSON にはテンプレートごとの定義データ（並び替えゲームなら RankOrderData）が入ります。
type Game struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ThumbnailImage string          `json:"thumbnailImage,omitempty"`
	GameTemplateID string          `json:"gameTemplateId"`
	CreatorID      string          `json:"creatorId"`
	IsPublished    bool            `json:"isPublished"`
	PlayCount      int             `json:"playCount"`
	LikeCount      int             `json:"likeCount"`
	GameJSON       json.RawMessage `json:"gameJson,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// GameTemplate は game_templates テーブルのレコードに対応する構造体です。
type GameTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameAttempt は game_attempts テーブルのレコードに対応する構造体です。
// 採点結果のうちランキングに必要なサブセットだけを保存します。
type GameAttempt struct {
	ID               string    `json:"id"`
	GameID           string    `json:"gameId"`
	PlayerName       string    `json:"playerName"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"maxScore"`
	CorrectCount     int       `json:"correctCount"`
	IsCorrect        bool      `json:"isCorrect"`
	TimeTakenSeconds *int      `json:"timeTakenSeconds,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateGameRequest はゲーム作成リクエスト用の構造体です。
type CreateGameRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ThumbnailImage string          `json:"thumbnail_image"`
	GameTemplateID string          `json:"game_template_id"`
	IsPublish      bool            `json:"is_publish"`
	GameJSON       json.RawMessage `json:"game_json"`
}

// UpdatePublishStatusRequest は公開状態更新リクエスト用の構造体です。
type UpdatePublishStatusRequest struct {
	GameID    string `json:"game_id"`
	IsPublish bool   `json:"is_publish"`
}

// UpdatePlayCountRequest はプレイ回数更新リクエスト用の構造体です。
type UpdatePlayCountRequest struct {
	GameID string `json:"game_id"`
}

// UpdateLikeCountRequest はいいね更新リクエスト用の構造体です。
type UpdateLikeCountRequest struct {
	GameID string `json:"game_id"`
	IsLike bool   `json:"is_like"`
}
