package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/nazotoki-works/puzzle-games-backend/internal/api/handlers"
	"github.com/nazotoki-works/puzzle-games-backend/internal/api/middleware"
	"github.com/nazotoki-works/puzzle-games-backend/internal/database"
	gameservices "github.com/nazotoki-works/puzzle-games-backend/internal/services/game"
	slidingservices "github.com/nazotoki-works/puzzle-games-backend/internal/services/sliding"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("エラー: DATABASE_URL 環境変数が設定されていません。")
	}

	dbService, err := database.NewDatabaseService(databaseURL)
	if err != nil {
		log.Fatalf("エラー: データベースの初期化に失敗しました: %v", err)
	}
	defer dbService.Close()

	// リポジトリ層の初期化
	gameRepo := database.NewGameRepository(dbService.DB)
	puzzleRepo := database.NewSlidingPuzzleRepository(dbService.DB)

	// サービス層の初期化
	gameService := gameservices.NewGameService(gameRepo)
	puzzleService := slidingservices.NewSlidingPuzzleService(puzzleRepo)

	// ランキングのライブ配信用ハブ (スコア受理時にサービスから通知される)
	leaderboardHub := slidingservices.NewLeaderboardHub(puzzleService)
	puzzleService.AttachHub(leaderboardHub)
	defer leaderboardHub.Shutdown()

	// Supabase Storage クライアント (画像アップロード用)
	supabaseURL := os.Getenv("SUPABASE_URL")
	serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseURL == "" || serviceKey == "" {
		log.Println("warning: SUPABASE_URL または SUPABASE_SERVICE_KEY が未設定のため、アップロードは失敗します。")
	}
	storageClient := storage_go.NewClient(supabaseURL+"/storage/v1", serviceKey, nil)
	uploadBucket := os.Getenv("UPLOAD_BUCKET")
	if uploadBucket == "" {
		uploadBucket = "game-images"
	}

	// ハンドラー層の初期化
	gameHandler := handlers.NewGameHandler(gameService)
	puzzleHandler := handlers.NewSlidingPuzzleHandler(puzzleService, leaderboardHub)
	uploadHandler := handlers.NewUploadHandler(storageClient, uploadBucket)
	publicHandler := handlers.NewPublicHandler(dbService)

	r := mux.NewRouter()
	r.Use(middleware.CORSHandler())

	// 認証不要な公開エンドポイント
	r.HandleFunc("/health", publicHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// 並び替えゲーム
	// 注意: /games/{gameID} より先に固定パスのルートを登録すること
	api.Handle("/games", middleware.RequireAuth(http.HandlerFunc(gameHandler.CreateGame))).Methods("POST")
	api.Handle("/games", middleware.OptionalAuth(http.HandlerFunc(gameHandler.ListGames))).Methods("GET")
	api.Handle("/games", middleware.RequireAuth(http.HandlerFunc(gameHandler.UpdatePublishStatus))).Methods("PATCH")
	api.Handle("/games/mine", middleware.RequireAuth(http.HandlerFunc(gameHandler.ListMyGames))).Methods("GET")
	api.HandleFunc("/games/templates", gameHandler.ListTemplates).Methods("GET")
	api.Handle("/games/play-count", middleware.OptionalAuth(http.HandlerFunc(gameHandler.AddPlayCount))).Methods("POST")
	api.Handle("/games/like", middleware.RequireAuth(http.HandlerFunc(gameHandler.Like))).Methods("POST")
	api.Handle("/games/{gameID}", middleware.OptionalAuth(http.HandlerFunc(gameHandler.GetGame))).Methods("GET")
	api.HandleFunc("/games/{gameID}/play", gameHandler.GetPlayable).Methods("GET")
	api.HandleFunc("/games/{gameID}/submit", gameHandler.SubmitAnswers).Methods("POST")

	// スライドパズル
	api.HandleFunc("/sliding-puzzles", puzzleHandler.ListPuzzles).Methods("GET")
	api.HandleFunc("/sliding-puzzles/{puzzleID}", puzzleHandler.GetPuzzle).Methods("GET")
	api.HandleFunc("/sliding-puzzles/{puzzleID}/score", puzzleHandler.SubmitScore).Methods("POST")
	api.HandleFunc("/sliding-puzzles/{puzzleID}/leaderboard", puzzleHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/sliding-puzzles/{puzzleID}/leaderboard/live", puzzleHandler.LiveLeaderboard).Methods("GET")

	// 画像アップロード
	api.Handle("/upload", middleware.RequireAuth(http.HandlerFunc(uploadHandler.Upload))).Methods("POST")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
