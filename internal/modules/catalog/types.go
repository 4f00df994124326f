package catalog

// DownloadDTO records one download event. Code is the raw access code the
// visitor redeemed; it may be empty or stale, the log row is written anyway.
type DownloadDTO struct {
	FileID string `json:"fileId"`
	Code   string `json:"code"`
}

// UploadInput carries one multipart upload, already read into memory.
type UploadInput struct {
	Name        string
	Description string
	ContentType string
	Payload     []byte

	ThumbnailName        string
	ThumbnailContentType string
	Thumbnail            []byte
}
