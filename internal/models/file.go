package models

// FileModel is a catalog entry backed by an object in blob storage. The record
// and the object are not transactionally linked: deletes are best-effort on the
// object side and an insert failure after upload leaves an orphaned blob.
type FileModel struct {
	Base
	Name          string `json:"name"           gorm:"not null"`
	Description   string `json:"description"`
	BlobURL       string `json:"blob_url"       gorm:"not null;size:500"`
	ThumbnailURL  string `json:"thumbnail_url"  gorm:"size:500"`
	FileType      string `json:"file_type"      gorm:"size:100"`
	FileSize      int64  `json:"file_size"`
	DownloadCount int    `json:"download_count" gorm:"not null;default:0"`
}

func (FileModel) TableName() string { return "files" }
