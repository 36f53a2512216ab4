package dto

import (
	"time"

	"github.com/spec-kit/portfolio-cms/internal/domain"
)

// MediaResponse is the JSON view of an uploaded asset.
type MediaResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text,omitempty"`
	UploadedBy   *int64    `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMediaResponse maps a media record.
func NewMediaResponse(m domain.Media) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		URL:          m.URL,
		AltText:      m.AltText,
		UploadedBy:   m.UploadedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// SettingRequest payload for PUT /api/admin/settings/:key.
type SettingRequest struct {
	Value  string `json:"value" validate:"max=10000"`
	Public bool   `json:"public"`
}

// SettingResponse is the JSON view of a setting.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Public    bool      `json:"public"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSettingResponse maps a setting.
func NewSettingResponse(s domain.Setting) SettingResponse {
	return SettingResponse{Key: s.Key, Value: s.Value, Public: s.Public, UpdatedAt: s.UpdatedAt}
}

// ActivityResponse is the JSON view of an activity entry.
type ActivityResponse struct {
	ID         int64          `json:"id"`
	UserID     *int64         `json:"user_id,omitempty"`
	Username   string         `json:"username,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IP         string         `json:"ip,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewActivityResponse maps an activity entry.
func NewActivityResponse(e domain.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Username:   e.Username,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		IP:         e.IP,
		CreatedAt:  e.CreatedAt,
	}
}
