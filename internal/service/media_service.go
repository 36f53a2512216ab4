package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

// UploadInput is a file received from the admin panel.
type UploadInput struct {
	OriginalName string
	AltText      string
	Content      io.Reader
}

// MediaService stores uploaded assets on disk and their metadata in the database.
type MediaService struct {
	media      repository.MediaRepository
	cfg        config.MediaConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMediaService builds the service.
func NewMediaService(media repository.MediaRepository, cfg config.MediaConfig, dispatcher events.Dispatcher, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{media: media, cfg: cfg, dispatcher: dispatcher, logger: logger}
}

// Upload sniffs the content type, writes the file and records it.
func (s *MediaService) Upload(ctx context.Context, input UploadInput, actor events.Actor) (*domain.Media, error) {
	data, err := io.ReadAll(io.LimitReader(input.Content, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file is empty", nil)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.cfg.MaxBytes})
	}

	mtype := mimetype.Detect(data)
	if !AllowedMediaType(mtype.String()) {
		return nil, apperrors.NewValidationError("unsupported file type", map[string]any{"mime_type": mtype.String()})
	}

	fileName := uuid.NewString() + mtype.Extension()
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("create media dir: %w", err))
	}
	fullPath := filepath.Join(s.cfg.Dir, fileName)
	if err := writeFile(fullPath, data); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	media := &domain.Media{
		FileName:     fileName,
		OriginalName: filepath.Base(input.OriginalName),
		MimeType:     mtype.String(),
		SizeBytes:    int64(len(data)),
		URL:          path.Join(s.cfg.URLPrefix, fileName),
		AltText:      strings.TrimSpace(input.AltText),
		UploadedBy:   actor.UserID,
	}
	if err := s.media.Create(ctx, media); err != nil {
		_ = os.Remove(fullPath)
		return nil, apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventMediaUploaded,
		Actor:      actor,
		EntityType: "media",
		EntityID:   strconv.FormatInt(media.ID, 10),
		Payload:    map[string]any{"file_name": media.FileName, "mime_type": media.MimeType, "size_bytes": media.SizeBytes},
	})
	return media, nil
}

// List returns uploaded media, newest first.
func (s *MediaService) List(ctx context.Context, limit, offset int) ([]domain.Media, error) {
	items, err := s.media.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []domain.Media{}
	}
	return items, nil
}

// Delete removes the record and its file.
func (s *MediaService) Delete(ctx context.Context, id int64, actor events.Actor) error {
	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "media", map[string]any{"id": id})
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return notFoundOr(err, "media", map[string]any{"id": id})
	}
	if err := os.Remove(filepath.Join(s.cfg.Dir, media.FileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("media file not removed", zap.String("file", media.FileName), zap.Error(err))
	}

	emit(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventMediaDeleted,
		Actor:      actor,
		EntityType: "media",
		EntityID:   strconv.FormatInt(id, 10),
		Payload:    map[string]any{"file_name": media.FileName},
	})
	return nil
}

// AllowedMediaType reports whether uploads of the sniffed type are accepted.
func AllowedMediaType(mime string) bool {
	switch {
	case strings.HasPrefix(mime, "image/"), strings.HasPrefix(mime, "video/"):
		return true
	case mime == "application/pdf":
		return true
	}
	return false
}

func writeFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write media file: %w", err)
	}
	return f.Close()
}
