package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/events"
	"github.com/spec-kit/portfolio-cms/internal/repository"
	apperrors "github.com/spec-kit/portfolio-cms/pkg/util"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,99}$`)

// SettingService manages site settings.
type SettingService struct {
	settings   repository.SettingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSettingService builds the service.
func NewSettingService(settings repository.SettingRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingService{settings: settings, dispatcher: dispatcher, logger: logger}
}

// List returns settings; publicOnly hides keys not exposed to visitors.
func (s *SettingService) List(ctx context.Context, publicOnly bool) ([]domain.Setting, error) {
	settings, err := s.settings.List(ctx, publicOnly)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if settings == nil {
		settings = []domain.Setting{}
	}
	return settings, nil
}

// Upsert creates or replaces a setting.
func (s *SettingService) Upsert(ctx context.Context, key, value string, public bool, actor events.Actor) (*domain.Setting, error) {
	key = strings.TrimSpace(key)
	if !settingKeyPattern.MatchString(key) {
		return nil, apperrors.NewValidationError("invalid setting key", map[string]any{"key": key})
	}
	setting := &domain.Setting{Key: key, Value: value, Public: public, UpdatedBy: actor.UserID}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	emit(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventSettingUpdated,
		Actor:      actor,
		EntityType: "setting",
		EntityID:   key,
		Payload:    map[string]any{"public": public},
	})
	return setting, nil
}

type settingExport struct {
	Value     string    `yaml:"value"`
	Public    bool      `yaml:"public"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// ExportYAML renders every setting as a YAML document keyed by setting key.
func (s *SettingService) ExportYAML(ctx context.Context) ([]byte, error) {
	settings, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]settingExport, len(settings))
	for _, setting := range settings {
		doc[setting.Key] = settingExport{Value: setting.Value, Public: setting.Public, UpdatedAt: setting.UpdatedAt.UTC()}
	}
	out, err := yaml.Marshal(map[string]any{"settings": doc})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return out, nil
}
