package sliding

import (
	"testing"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// TestRank_MovesThenTime は手数優先・同手数なら所要時間でのランキングをテストします。
func TestRank_MovesThenTime(t *testing.T) {
	scores := []models.SlidingPuzzleScore{
		{PlayerName: "alice", Moves: 20, TimeSpent: 60, Completed: true},
		{PlayerName: "bob", Moves: 18, TimeSpent: 80, Completed: true},
		{PlayerName: "carol", Moves: 18, TimeSpent: 50, Completed: true},
	}

	entries := Rank(scores, 2)

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, but got %d", len(entries))
	}
	if entries[0].PlayerName != "carol" || entries[0].Moves != 18 || entries[0].TimeSpent != 50 {
		t.Errorf("Expected carol (18 moves, 50s) first, but got %+v", entries[0])
	}
	if entries[1].PlayerName != "bob" || entries[1].TimeSpent != 80 {
		t.Errorf("Expected bob (18 moves, 80s) second, but got %+v", entries[1])
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("Expected ranks 1 and 2, but got %d and %d", entries[0].Rank, entries[1].Rank)
	}
}

// TestRank_FiltersIncomplete は未完了のスコアがランキングに載らないことをテストします。
func TestRank_FiltersIncomplete(t *testing.T) {
	scores := []models.SlidingPuzzleScore{
		{PlayerName: "quitter", Moves: 1, TimeSpent: 1, Completed: false},
		{PlayerName: "finisher", Moves: 40, TimeSpent: 200, Completed: true},
	}

	entries := Rank(scores, 10)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, but got %d", len(entries))
	}
	if entries[0].PlayerName != "finisher" {
		t.Errorf("Expected finisher to rank, but got %s", entries[0].PlayerName)
	}
}

// TestRank_StableOnFullTie は手数も所要時間も同じ場合に入力順が保たれることをテストします。
func TestRank_StableOnFullTie(t *testing.T) {
	scores := []models.SlidingPuzzleScore{
		{PlayerName: "first", Moves: 30, TimeSpent: 90, Completed: true},
		{PlayerName: "second", Moves: 30, TimeSpent: 90, Completed: true},
	}

	entries := Rank(scores, 10)

	if entries[0].PlayerName != "first" || entries[1].PlayerName != "second" {
		t.Errorf("Expected insertion order on full tie, but got %s, %s", entries[0].PlayerName, entries[1].PlayerName)
	}
}

// TestRank_DefaultsOnBadLimit は0以下のlimitがデフォルト件数に落ちることをテストします。
func TestRank_DefaultsOnBadLimit(t *testing.T) {
	scores := make([]models.SlidingPuzzleScore, 0, 15)
	for i := 0; i < 15; i++ {
		scores = append(scores, models.SlidingPuzzleScore{
			PlayerName: "p",
			Moves:      i + 10,
			TimeSpent:  100,
			Completed:  true,
		})
	}

	entries := Rank(scores, -1)

	if len(entries) != DefaultLeaderboardLimit {
		t.Errorf("Expected %d entries with invalid limit, but got %d", DefaultLeaderboardLimit, len(entries))
	}
}

// TestNormalizeLimit はlimitクエリパラメータの正規化をテストします。
func TestNormalizeLimit(t *testing.T) {
	cases := map[string]int{
		"":     DefaultLeaderboardLimit,
		"abc":  DefaultLeaderboardLimit,
		"0":    DefaultLeaderboardLimit,
		"-5":   DefaultLeaderboardLimit,
		"3":    3,
		"100":  100,
	}
	for raw, expected := range cases {
		if got := NormalizeLimit(raw); got != expected {
			t.Errorf("NormalizeLimit(%q): expected %d, but got %d", raw, expected, got)
		}
	}
}
