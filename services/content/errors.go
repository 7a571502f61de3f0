package content

import (
	"errors"
	"fmt"

	"trinhnail/database/kv"
)

var (
	// ErrConfirmationRequired guards the irreversible reset.
	ErrConfirmationRequired = errors.New("content reset requires confirmation")

	// Remote adapters wrap their failures with these so the store can classify them.
	ErrQuotaExceeded    = errors.New("document size limit exceeded")
	ErrPermissionDenied = errors.New("permission denied")
)

// FailureKind classifies why a write could not be made durable.
type FailureKind string

const (
	QuotaExceeded    FailureKind = "quota_exceeded"
	PermissionDenied FailureKind = "permission_denied"
	NetworkFailure   FailureKind = "network"
)

// PersistenceError reports a failed write. The in-memory content keeps the
// new value regardless.
type PersistenceError struct {
	Kind    FailureKind
	Backend string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s write failed (%s): %v", e.Backend, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UserMessage is the notice shown to the site owner.
func (e *PersistenceError) UserMessage() string {
	switch {
	case e.Kind == QuotaExceeded && e.Backend == localBackend:
		return "⚠️ 儲存空間已滿 (本機模式)！無法儲存更多圖片。"
	case e.Kind == QuotaExceeded:
		return "⚠️ 上傳失敗：圖片總大小超過資料庫限制 (1MB)。請嘗試使用更簡單的圖片。"
	case e.Kind == PermissionDenied:
		return "⚠️ 權限錯誤：請確認資料庫存取規則已允許寫入。"
	default:
		return "⚠️ 儲存失敗，請檢查網路連線。"
	}
}

func classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, kv.ErrQuotaExceeded):
		return QuotaExceeded
	case errors.Is(err, ErrPermissionDenied):
		return PermissionDenied
	default:
		return NetworkFailure
	}
}
