package repository

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
)

// checkinSessionsCollection セッションドキュメントのコレクション名
// expireAtフィールドをTTLポリシーに指定しておくと期限切れドキュメントが自動削除される
const checkinSessionsCollection = "checkinSessions"

// FirestoreCheckinSessionRepository Firestoreを使用したチェックインセッションリポジトリ
type FirestoreCheckinSessionRepository struct {
	client *firestore.Client
}

// NewFirestoreCheckinSessionRepository 新しいFirestoreCheckinSessionRepositoryインスタンスを作成
func NewFirestoreCheckinSessionRepository(client *firestore.Client) repository.CheckinSessionRepository {
	return &FirestoreCheckinSessionRepository{
		client: client,
	}
}

// Save はセッションをFirestoreに保存する（既存ドキュメントは上書き）
func (r *FirestoreCheckinSessionRepository) Save(ctx context.Context, session *model.CheckinSession) error {
	firestoreData := session.ToFirestoreCheckinSession()

	_, err := r.client.Collection(checkinSessionsCollection).Doc(session.SessionID).Set(ctx, firestoreData)
	if err != nil {
		log.Printf("❌ Failed to save checkin session %s: %v", session.SessionID, err)
		return fmt.Errorf("チェックインセッションの保存に失敗しました: %w", err)
	}

	return nil
}

// Get は指定されたセッションをFirestoreから取得する
func (r *FirestoreCheckinSessionRepository) Get(ctx context.Context, sessionID string) (*model.CheckinSession, error) {
	doc, err := r.client.Collection(checkinSessionsCollection).Doc(sessionID).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("セッションID %s（有効期限切れまたは無効なID）: %w", sessionID, repository.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("チェックインセッションの取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreCheckinSession
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	return firestoreData.ToCheckinSession(sessionID), nil
}
