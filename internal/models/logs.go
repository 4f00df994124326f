package models

// AccessLogModel is an append-only audit row written on every successful code
// redemption. Deleting a code leaves its log rows behind on purpose.
type AccessLogModel struct {
	Base
	AccessCodeID string `json:"access_code_id" gorm:"index"`
	CodeUsed     string `json:"code_used"`
}

func (AccessLogModel) TableName() string { return "access_logs" }

// DownloadLogModel is an append-only audit row written per download attempt.
// AccessCodeID is nullable: download logging never blocks on code validity.
type DownloadLogModel struct {
	Base
	FileID       string  `json:"file_id"        gorm:"index;not null"`
	AccessCodeID *string `json:"access_code_id" gorm:"index"`
}

func (DownloadLogModel) TableName() string { return "download_logs" }
