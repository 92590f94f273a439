// Package sliding はスライドパズルのランキング計算エンジンです。
// ランキングは保存済みのスコア行から読み取り時に毎回計算され、
// 事前計算された順位は持ちません。
package sliding

import (
	"sort"
	"strconv"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// DefaultLeaderboardLimit はランキング取得件数のデフォルト値です。
const DefaultLeaderboardLimit = 10

// NormalizeLimit はクエリパラメータの limit を正の整数に正規化します。
// 空文字・数値以外・0以下はすべてデフォルト値にフォールバックします。
func NormalizeLimit(raw string) int {
	if raw == "" {
		return DefaultLeaderboardLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultLeaderboardLimit
	}
	return n
}

// Rank はスコア行の集合からランキングを計算します。
//
//   - completed == true の行だけを対象にする
//   - 第1キー: 手数の昇順（少ないほど上位）
//   - 第2キー: 所要時間の昇順
//   - 両キーが同値の場合は入力順を保持する（安定ソート）
//
// limit が0以下の場合はデフォルト件数に切り詰めます。入力は変更しません。
func Rank(scores []models.SlidingPuzzleScore, limit int) []models.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	completed := make([]models.SlidingPuzzleScore, 0, len(scores))
	for _, s := range scores {
		if s.Completed {
			completed = append(completed, s)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		if completed[i].Moves != completed[j].Moves {
			return completed[i].Moves < completed[j].Moves
		}
		return completed[i].TimeSpent < completed[j].TimeSpent
	})

	if len(completed) > limit {
		completed = completed[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(completed))
	for i, s := range completed {
		entries[i] = models.LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: s.PlayerName,
			Moves:      s.Moves,
			TimeSpent:  s.TimeSpent,
			Completed:  s.Completed,
		}
	}
	return entries
}
