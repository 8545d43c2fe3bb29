package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// セッションごとのkey-valueストア（localStorage相当）。
// 値の中身は解釈しない。
type StorageRepository interface {
	// 無ければErrNotFound
	Get(ctx context.Context, sessionID string, key string) (string, error)
	// 既存ありは上書き
	Set(ctx context.Context, sessionID string, key string, value string) error
	// 無いkeyを消してもエラーにしない
	Remove(ctx context.Context, sessionID string, key string) error
	// keyを持っているセッションID一覧
	ListSessions(ctx context.Context, key string) ([]string, error)
}
