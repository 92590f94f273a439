// Package rankorder は並び替えゲームの検証・採点エンジンです。
// 全ての関数は引数に対する純粋関数で、I/Oや共有状態を持たないため
// 同期なしで並行に呼び出せます。
package rankorder

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

const (
	// MinItems / MaxItems はゲーム作成時に許可するアイテム数の範囲です。
	MinItems = 2
	MaxItems = 20

	// PointsPerPosition は正解位置1つあたりの基礎点です。
	PointsPerPosition = 100
	// BonusPerSecond は残り1秒あたりのタイムボーナスです。
	BonusPerSecond = 10
)

// ValidateData はゲーム作成時の定義データを検証します。
// CorrectPosition が 1..N の連番（重複・欠番なし）であることを保証します。
// エンジンの他の関数はこの検証済みであることを前提とし、再検証はしません。
func ValidateData(data *models.RankOrderData) error {
	if data == nil {
		return fmt.Errorf("ゲームデータがありません")
	}
	if data.Title == "" {
		return fmt.Errorf("タイトルは必須です")
	}
	n := len(data.Items)
	if n < MinItems {
		return fmt.Errorf("アイテムは最低%d個必要です", MinItems)
	}
	if n > MaxItems {
		return fmt.Errorf("アイテムは最大%d個までです", MaxItems)
	}
	if data.TimeLimitSeconds != nil && *data.TimeLimitSeconds <= 0 {
		return fmt.Errorf("制限時間は正の整数である必要があります")
	}

	seenIDs := make(map[string]bool, n)
	seenPositions := make([]bool, n)
	for _, item := range data.Items {
		if item.ID == "" {
			return fmt.Errorf("アイテムIDは必須です")
		}
		if item.Content == "" {
			return fmt.Errorf("アイテム '%s' の内容は必須です", item.ID)
		}
		if seenIDs[item.ID] {
			return fmt.Errorf("アイテムID '%s' が重複しています", item.ID)
		}
		seenIDs[item.ID] = true

		if item.CorrectPosition < 1 || item.CorrectPosition > n {
			return fmt.Errorf("アイテム '%s' の正解位置 %d が 1..%d の範囲外です", item.ID, item.CorrectPosition, n)
		}
		if seenPositions[item.CorrectPosition-1] {
			return fmt.Errorf("正解位置 %d が重複しています", item.CorrectPosition)
		}
		seenPositions[item.CorrectPosition-1] = true
	}
	return nil
}

// CanonicalOrder は CorrectPosition の昇順に並べた正解順のコピーを返します。
// 入力は変更しません。
func CanonicalOrder(data *models.RankOrderData) []models.RankOrderItem {
	ordered := make([]models.RankOrderItem, len(data.Items))
	copy(ordered, data.Items)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CorrectPosition < ordered[j].CorrectPosition
	})
	return ordered
}

// Playable は正解位置を取り除き、提示順をシャッフルしたプレイ用ビューを返します。
// rng が nil の場合は現在時刻でシードした乱数源を使用するため、
// 呼び出しごとに異なる並びになり得ます（再現性は保証しません）。
// テストでは固定シードの rng を渡すことで並びを固定できます。
// 入力の定義データは変更しません。
func Playable(data *models.RankOrderData, rng *rand.Rand) models.RankOrderPlayable {
	items := make([]models.RankOrderPlayableItem, len(data.Items))
	for i, item := range data.Items {
		items[i] = models.RankOrderPlayableItem{
			ID:       item.ID,
			Content:  item.Content,
			ImageURL: item.ImageURL,
		}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	var timeLimit *int
	if data.TimeLimitSeconds != nil {
		v := *data.TimeLimitSeconds
		timeLimit = &v
	}
	return models.RankOrderPlayable{
		Items:            items,
		TimeLimitSeconds: timeLimit,
	}
}

// CheckAnswers は提出された回答を正解順と位置ごとに比較し、採点結果を返します。
//
// 採点ルール:
//   - 基礎点 = 正解位置数 × PointsPerPosition
//   - タイムボーナスは全問正解かつ制限時間と所要時間の両方がある場合のみ、
//     max(0, 制限時間 - 所要時間) × BonusPerSecond
//   - MaxScore = N × PointsPerPosition + 制限時間 × BonusPerSecond（制限時間がなければ基礎点のみ）
//
// 定義に存在しないIDはその位置で不一致になるだけで、エラーにはしません。
// 同じ定義と提出に対しては常に同じ結果を返します。
func CheckAnswers(data *models.RankOrderData, submission *models.RankOrderSubmission) models.RankOrderResult {
	correctOrder := CanonicalOrder(data)
	n := len(correctOrder)

	// 短い方の長さまでを位置ごとに比較する。比較されなかった位置は不正解扱い。
	compareLen := len(submission.OrderedItemIDs)
	if n < compareLen {
		compareLen = n
	}
	correctCount := 0
	for i := 0; i < compareLen; i++ {
		if submission.OrderedItemIDs[i] == correctOrder[i].ID {
			correctCount++
		}
	}

	isCorrect := correctCount == n
	score := correctCount * PointsPerPosition
	maxScore := n * PointsPerPosition

	if data.TimeLimitSeconds != nil {
		// 最大ボーナスは一瞬で解いた場合の理論値
		maxScore += *data.TimeLimitSeconds * BonusPerSecond

		// 速くても間違っていれば報酬なし。全問正解の場合のみボーナスを与える。
		if isCorrect && submission.TimeTakenSeconds != nil {
			remaining := *data.TimeLimitSeconds - *submission.TimeTakenSeconds
			if remaining > 0 {
				score += remaining * BonusPerSecond
			}
		}
	}

	userOrder := make([]string, len(submission.OrderedItemIDs))
	copy(userOrder, submission.OrderedItemIDs)

	return models.RankOrderResult{
		Score:        score,
		MaxScore:     maxScore,
		CorrectOrder: correctOrder,
		UserOrder:    userOrder,
		IsCorrect:    isCorrect,
		CorrectCount: correctCount,
	}
}
