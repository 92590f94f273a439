package rankorder

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/nazotoki-works/puzzle-games-backend/internal/models"
)

// newFlowerPuzzle はテスト用の7アイテムのゲームデータを作成します。
// （花の一生を正しい順に並べるゲーム、制限時間120秒）
func newFlowerPuzzle() *models.RankOrderData {
	timeLimit := 120
	return &models.RankOrderData{
		Title: "Sort Life Cycle of Flowering Plant",
		Items: []models.RankOrderItem{
			{ID: "3", Content: "Growth", CorrectPosition: 3},
			{ID: "1", Content: "Seed Production", CorrectPosition: 1},
			{ID: "7", Content: "Seed Dispersal", CorrectPosition: 7},
			{ID: "2", Content: "Germination", CorrectPosition: 2},
			{ID: "5", Content: "Pollination", CorrectPosition: 5},
			{ID: "4", Content: "Flower Production", CorrectPosition: 4},
			{ID: "6", Content: "Fertilisation", CorrectPosition: 6},
		},
		TimeLimitSeconds: &timeLimit,
	}
}

func intPtr(v int) *int { return &v }

// TestCanonicalOrder は正解順がCorrectPositionの昇順になることをテストします。
func TestCanonicalOrder(t *testing.T) {
	data := newFlowerPuzzle()
	ordered := CanonicalOrder(data)

	expected := []string{"1", "2", "3", "4", "5", "6", "7"}
	for i, item := range ordered {
		if item.ID != expected[i] {
			t.Errorf("Expected item at position %d to be %s, but got %s", i+1, expected[i], item.ID)
		}
	}

	// 入力の定義データが変更されていないことを確認
	if data.Items[0].ID != "3" {
		t.Error("CanonicalOrder should not mutate the input definition.")
	}
}

// TestCheckAnswers_PerfectWithTimeBonus は全問正解＋タイムボーナスのケースをテストします。
func TestCheckAnswers_PerfectWithTimeBonus(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs:   []string{"1", "2", "3", "4", "5", "6", "7"},
		TimeTakenSeconds: intPtr(90),
	}

	result := CheckAnswers(data, submission)

	if result.CorrectCount != 7 {
		t.Errorf("Expected correctCount 7, but got %d", result.CorrectCount)
	}
	if !result.IsCorrect {
		t.Error("Expected isCorrect to be true.")
	}
	// 基礎点 700 + ボーナス (120-90)*10 = 300
	if result.Score != 1000 {
		t.Errorf("Expected score 1000, but got %d", result.Score)
	}
	// 最大スコアは 700 + 120*10 = 1900
	if result.MaxScore != 1900 {
		t.Errorf("Expected maxScore 1900, but got %d", result.MaxScore)
	}
}

// TestCheckAnswers_AdjacentSwap は隣接する2アイテムの入れ替えをテストします。
// 正解数は最大でも2しか減りません。
func TestCheckAnswers_AdjacentSwap(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs: []string{"2", "1", "3", "4", "5", "6", "7"},
	}

	result := CheckAnswers(data, submission)

	if result.CorrectCount != 5 {
		t.Errorf("Expected correctCount 5, but got %d", result.CorrectCount)
	}
	if result.IsCorrect {
		t.Error("Expected isCorrect to be false.")
	}
	if result.Score != 500 {
		t.Errorf("Expected score 500, but got %d", result.Score)
	}
}

// TestCheckAnswers_NoBonusWhenWrong は不正解時にタイムボーナスが付かないことをテストします。
func TestCheckAnswers_NoBonusWhenWrong(t *testing.T) {
	data := newFlowerPuzzle()
	// 速いが1箇所間違っている提出
	submission := &models.RankOrderSubmission{
		OrderedItemIDs:   []string{"2", "1", "3", "4", "5", "6", "7"},
		TimeTakenSeconds: intPtr(5),
	}

	result := CheckAnswers(data, submission)

	if result.Score != 500 {
		t.Errorf("Expected score 500 (no time bonus for wrong answers), but got %d", result.Score)
	}
}

// TestCheckAnswers_NoBonusWithoutTimeTaken は所要時間がない場合にボーナスが付かないことをテストします。
func TestCheckAnswers_NoBonusWithoutTimeTaken(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs: []string{"1", "2", "3", "4", "5", "6", "7"},
	}

	result := CheckAnswers(data, submission)

	if result.Score != 700 {
		t.Errorf("Expected score 700, but got %d", result.Score)
	}
	if !result.IsCorrect {
		t.Error("Expected isCorrect to be true even without time data.")
	}
}

// TestCheckAnswers_OverTimeLimit は制限時間超過時にボーナスが0になることをテストします。
func TestCheckAnswers_OverTimeLimit(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs:   []string{"1", "2", "3", "4", "5", "6", "7"},
		TimeTakenSeconds: intPtr(300),
	}

	result := CheckAnswers(data, submission)

	if result.Score != 700 {
		t.Errorf("Expected score 700 (bonus floored at 0), but got %d", result.Score)
	}
}

// TestCheckAnswers_NoTimeLimit は制限時間のないゲームの最大スコアをテストします。
func TestCheckAnswers_NoTimeLimit(t *testing.T) {
	data := newFlowerPuzzle()
	data.TimeLimitSeconds = nil
	submission := &models.RankOrderSubmission{
		OrderedItemIDs:   []string{"1", "2", "3", "4", "5", "6", "7"},
		TimeTakenSeconds: intPtr(10),
	}

	result := CheckAnswers(data, submission)

	if result.Score != 700 {
		t.Errorf("Expected score 700, but got %d", result.Score)
	}
	if result.MaxScore != 700 {
		t.Errorf("Expected maxScore 700 when no time limit exists, but got %d", result.MaxScore)
	}
}

// TestCheckAnswers_UnknownIDs は定義に存在しないIDが不一致として扱われることをテストします。
// （エラーにはならず「間違った答え」に退化する）
func TestCheckAnswers_UnknownIDs(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs: []string{"999", "2", "3", "4", "5", "6", "unknown"},
	}

	result := CheckAnswers(data, submission)

	if result.CorrectCount != 5 {
		t.Errorf("Expected correctCount 5 with unknown IDs, but got %d", result.CorrectCount)
	}
	if result.IsCorrect {
		t.Error("Expected isCorrect to be false.")
	}
}

// TestCheckAnswers_ShortAndLongSubmissions は提出の長さが定義と異なるケースをテストします。
func TestCheckAnswers_ShortAndLongSubmissions(t *testing.T) {
	data := newFlowerPuzzle()

	// 短い提出: 比較は提出の長さまで
	short := CheckAnswers(data, &models.RankOrderSubmission{
		OrderedItemIDs: []string{"1", "2", "3"},
	})
	if short.CorrectCount != 3 {
		t.Errorf("Expected correctCount 3 for short submission, but got %d", short.CorrectCount)
	}
	if short.IsCorrect {
		t.Error("Short submission should never be fully correct.")
	}

	// 長い提出: 定義の長さを超えた位置は比較されない
	long := CheckAnswers(data, &models.RankOrderSubmission{
		OrderedItemIDs: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
	})
	if long.CorrectCount != 7 {
		t.Errorf("Expected correctCount 7 for long submission, but got %d", long.CorrectCount)
	}
	if !long.IsCorrect {
		t.Error("Expected isCorrect to be true when all canonical positions match.")
	}
}

// TestCheckAnswers_Idempotent は同じ入力に対して常に同じ結果を返すことをテストします。
func TestCheckAnswers_Idempotent(t *testing.T) {
	data := newFlowerPuzzle()
	submission := &models.RankOrderSubmission{
		OrderedItemIDs:   []string{"1", "3", "2", "4", "5", "6", "7"},
		TimeTakenSeconds: intPtr(60),
	}

	first := CheckAnswers(data, submission)
	second := CheckAnswers(data, submission)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results for identical inputs, but got %+v and %+v", first, second)
	}
}

// TestPlayable_HidesCorrectPositions はプレイ用ビューに正解位置が含まれないことをテストします。
func TestPlayable_HidesCorrectPositions(t *testing.T) {
	data := newFlowerPuzzle()
	rng := rand.New(rand.NewSource(1))

	playable := Playable(data, rng)

	if len(playable.Items) != len(data.Items) {
		t.Fatalf("Expected %d items, but got %d", len(data.Items), len(playable.Items))
	}
	// 全アイテムが含まれていることを確認（順序は問わない）
	seen := make(map[string]bool)
	for _, item := range playable.Items {
		seen[item.ID] = true
	}
	for _, item := range data.Items {
		if !seen[item.ID] {
			t.Errorf("Expected playable view to contain item %s", item.ID)
		}
	}
	if playable.TimeLimitSeconds == nil || *playable.TimeLimitSeconds != 120 {
		t.Error("Expected playable view to carry the time limit.")
	}
}

// TestPlayable_DoesNotMutateDefinition はプレイ用ビューの生成が定義を変更しないことをテストします。
func TestPlayable_DoesNotMutateDefinition(t *testing.T) {
	data := newFlowerPuzzle()
	original := make([]models.RankOrderItem, len(data.Items))
	copy(original, data.Items)

	Playable(data, rand.New(rand.NewSource(42)))

	if !reflect.DeepEqual(original, data.Items) {
		t.Error("Playable should not mutate the input definition.")
	}
}

// TestPlayable_ShufflesWithInjectedSource は注入した乱数源で並びが決まることをテストします。
func TestPlayable_ShufflesWithInjectedSource(t *testing.T) {
	data := newFlowerPuzzle()

	first := Playable(data, rand.New(rand.NewSource(7)))
	second := Playable(data, rand.New(rand.NewSource(7)))

	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Error("Expected identical orders for identical random sources.")
	}
}

// TestPlayable_EmptyDefinition はアイテム0個の定義が空のビューになることをテストします。
func TestPlayable_EmptyDefinition(t *testing.T) {
	data := &models.RankOrderData{Title: "empty"}
	playable := Playable(data, rand.New(rand.NewSource(1)))
	if len(playable.Items) != 0 {
		t.Errorf("Expected empty view, but got %d items", len(playable.Items))
	}
}

// TestValidateData は作成時バリデーションの境界ケースをテストします。
func TestValidateData(t *testing.T) {
	if err := ValidateData(newFlowerPuzzle()); err != nil {
		t.Errorf("Expected valid data to pass, but got error: %v", err)
	}

	if err := ValidateData(nil); err == nil {
		t.Error("Expected nil data to be rejected.")
	}

	// アイテムが少なすぎる
	tooFew := &models.RankOrderData{
		Title: "few",
		Items: []models.RankOrderItem{{ID: "1", Content: "a", CorrectPosition: 1}},
	}
	if err := ValidateData(tooFew); err == nil {
		t.Error("Expected data with fewer than 2 items to be rejected.")
	}

	// 正解位置の重複
	duplicated := newFlowerPuzzle()
	duplicated.Items[0].CorrectPosition = 1
	if err := ValidateData(duplicated); err == nil {
		t.Error("Expected duplicated correct positions to be rejected.")
	}

	// 正解位置の欠番（範囲外）
	gapped := newFlowerPuzzle()
	gapped.Items[0].CorrectPosition = 9
	if err := ValidateData(gapped); err == nil {
		t.Error("Expected out-of-range correct position to be rejected.")
	}

	// アイテムIDの重複
	dupID := newFlowerPuzzle()
	dupID.Items[1].ID = dupID.Items[0].ID
	if err := ValidateData(dupID); err == nil {
		t.Error("Expected duplicated item IDs to be rejected.")
	}

	// 制限時間が0以下
	badLimit := newFlowerPuzzle()
	badLimit.TimeLimitSeconds = intPtr(0)
	if err := ValidateData(badLimit); err == nil {
		t.Error("Expected non-positive time limit to be rejected.")
	}
}
