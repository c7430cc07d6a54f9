package domain

import "errors"

var (
	// ErrValidation は ValidationErrors が errors.Is で一致する番兵。
	ErrValidation = errors.New("validation failed")
	// ErrUpload は画像ホストへのアップロード失敗。下書きはそのまま残る。
	ErrUpload = errors.New("image upload failed")
	// ErrLocation は位置情報が取得できなかったことを表し、保存処理を中断させる。
	ErrLocation = errors.New("unable to fetch location")
	// ErrPersistence はレコード保存（API 呼び出しを含む）の失敗。
	ErrPersistence = errors.New("failed to save record")
	// ErrNotFound は出力条件に一致するレコードが存在しないことを表す。
	ErrNotFound = errors.New("no data found for given filters")
	// ErrInvalidPayload は日付・数値への変換に失敗した入力。
	ErrInvalidPayload = errors.New("invalid payload")
)
