package handlers

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

// maxUploadBytes は画像アップロードの上限サイズ (2MB) です。
const maxUploadBytes = 2 << 20

// 拡張子とContent-Typeの対応表。ここにない拡張子は受け付けません。
var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// UploadHandler はゲーム用画像のアップロードを処理します。
// ファイルはSupabase Storageのバケットに保存されます。
type UploadHandler struct {
	storage *storage_go.Client
	bucket  string
}

// NewUploadHandler は新しい UploadHandler インスタンスを作成します。
func NewUploadHandler(storage *storage_go.Client, bucket string) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		bucket:  bucket,
	}
}

// Upload は multipart/form-data の "file" フィールドから画像を受け取り、
// ストレージに保存して公開URLを返すハンドラーです。
// POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, err := ExtractUserIDFromContext(r); err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return
	}

	// 2MBを超えるリクエストはここで弾く
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "ファイルサイズは2MB以下にしてください")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "fileフィールドが必要です")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		WriteErrorResponse(w, http.StatusBadRequest, "jpeg/jpg/png形式の画像のみアップロードできます")
		return
	}

	objectName := fmt.Sprintf("file-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)

	if _, err := h.storage.UploadFile(h.bucket, objectName, file, storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		log.Printf("[UploadHandler] Failed to upload %s to bucket %s: %v", objectName, h.bucket, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "ファイルのアップロードに失敗しました")
		return
	}

	publicURL := h.storage.GetPublicUrl(h.bucket, objectName).SignedURL
	log.Printf("[UploadHandler] Uploaded %s (%d bytes) to bucket %s", objectName, header.Size, h.bucket)

	WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"url":      publicURL,
		"filename": objectName,
		"size":     header.Size,
	})
}
