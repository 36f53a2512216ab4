package domain

import "time"

// Media is an uploaded asset referenced by projects and settings.
type Media struct {
	ID           int64
	FileName     string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	URL          string
	AltText      string
	UploadedBy   *int64
	CreatedAt    time.Time
}
