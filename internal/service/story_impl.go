package service

import (
	"context"
	"errors"
	"time"

	"story-magic/internal/generation"
	"story-magic/internal/interfaces"
	"story-magic/internal/models"
	"story-magic/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// persistTimeout ограничивает сохранение сгенерированной истории, которое
// выполняется уже без привязки к запросу клиента.
const persistTimeout = 15 * time.Second

var _ StoryService = (*storyServiceImpl)(nil)

type storyServiceImpl struct {
	repo      interfaces.StoryRepository
	generator generation.StoryGenerator
	feedCache *cache.Cache
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewStoryService creates a new instance of StoryService.
// feedTTL 0 отключает кэш публичной ленты.
func NewStoryService(
	repo interfaces.StoryRepository,
	generator generation.StoryGenerator,
	feedTTL time.Duration,
	logger *zap.Logger,
) StoryService {
	var feedCache *cache.Cache
	if feedTTL > 0 {
		feedCache = cache.New(feedTTL, 2*feedTTL)
	}
	return &storyServiceImpl{
		repo:      repo,
		generator: generator,
		feedCache: feedCache,
		validate:  validation.New(),
		logger:    logger.Named("StoryService"),
	}
}

func (s *storyServiceImpl) ListStories(ctx context.Context, userID uuid.UUID) ([]models.Story, error) {
	stories, err := s.repo.ListByUser(ctx, userID.String())
	if err != nil {
		s.logger.Error("Failed to list user stories", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}
	return normalizeLikes(stories), nil
}

// ListPublicStories истории других пользователей, новые первыми.
// Результат кэшируется на viewerID до первой записи.
func (s *storyServiceImpl) ListPublicStories(ctx context.Context, viewerID uuid.UUID) ([]models.Story, error) {
	key := viewerID.String()
	if s.feedCache != nil {
		if cached, ok := s.feedCache.Get(key); ok {
			publicFeedCacheTotal.WithLabelValues("hit").Inc()
			return cloneStories(cached.([]models.Story)), nil
		}
		publicFeedCacheTotal.WithLabelValues("miss").Inc()
	}

	stories, err := s.repo.ListPublic(ctx, key, 0)
	if err != nil {
		s.logger.Error("Failed to list public stories", zap.String("viewerID", key), zap.Error(err))
		return nil, err
	}
	stories = normalizeLikes(stories)
	if s.feedCache != nil {
		s.feedCache.SetDefault(key, stories)
	}
	return cloneStories(stories), nil
}

// cloneStories копия ленты для вызывающего, пустая лента остаётся [] в JSON.
func cloneStories(stories []models.Story) []models.Story {
	out := make([]models.Story, len(stories))
	copy(out, stories)
	return out
}

func (s *storyServiceImpl) GetStory(ctx context.Context, userID uuid.UUID, storyID string) (*models.Story, error) {
	if err := checkStoryID(storyID); err != nil {
		return nil, err
	}
	story, err := s.repo.GetByID(ctx, storyID, userID.String())
	if err != nil {
		return nil, err
	}
	normalizeStory(story)
	return story, nil
}

// CreateStory сохраняет присланную целиком историю.
// Отсутствие любого из обязательных полей дает ErrMissingFields.
func (s *storyServiceImpl) CreateStory(ctx context.Context, userID uuid.UUID, input models.CreateStoryInput) (story *models.Story, err error) {
	defer func() { observeOp(storyOperationsTotal, "create", err) }()

	if err := s.validate.Struct(input); err != nil {
		if fe := validation.FirstError(err); fe != nil {
			s.logger.Debug("Story create rejected", zap.String("field", fe.Field()))
		}
		return nil, models.ErrMissingFields
	}

	story = &models.Story{
		ID:          uuid.NewString(),
		UserID:      userID.String(),
		Title:       input.Title,
		Genre:       input.Genre,
		Characters:  input.Characters,
		Description: input.Description,
		Scenes:      input.Scenes,
		CoverImage:  input.CoverImage,
		Likes:       []string{},
	}
	if err := s.repo.Create(ctx, story); err != nil {
		s.logger.Error("Failed to create story", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}
	s.invalidateFeed()
	s.logger.Info("Story created", zap.String("storyID", story.ID), zap.String("userID", story.UserID))
	return story, nil
}

func (s *storyServiceImpl) UpdateStory(ctx context.Context, userID uuid.UUID, storyID string, update models.StoryUpdate) (story *models.Story, err error) {
	defer func() { observeOp(storyOperationsTotal, "update", err) }()

	if err := checkStoryID(storyID); err != nil {
		return nil, err
	}
	story, err = s.repo.Update(ctx, storyID, userID.String(), update)
	if err != nil {
		return nil, err
	}
	s.invalidateFeed()
	normalizeStory(story)
	return story, nil
}

func (s *storyServiceImpl) DeleteStory(ctx context.Context, userID uuid.UUID, storyID string) (err error) {
	defer func() { observeOp(storyOperationsTotal, "delete", err) }()

	if err := checkStoryID(storyID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storyID, userID.String()); err != nil {
		return err
	}
	s.invalidateFeed()
	s.logger.Info("Story deleted", zap.String("storyID", storyID), zap.String("userID", userID.String()))
	return nil
}

// ToggleLike ставит или снимает лайк пользователя. Лайкать можно любую историю,
// включая свою.
func (s *storyServiceImpl) ToggleLike(ctx context.Context, userID uuid.UUID, storyID string) (result *models.LikeResult, err error) {
	defer func() { observeOp(storyOperationsTotal, "like", err) }()

	if err := checkStoryID(storyID); err != nil {
		return nil, err
	}
	result, err = s.repo.ToggleLike(ctx, storyID, userID.String())
	if err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) {
			s.logger.Error("Failed to toggle like", zap.String("storyID", storyID), zap.Error(err))
		}
		return nil, err
	}
	s.invalidateFeed()
	return result, nil
}

func (s *storyServiceImpl) CreateSampleStory(ctx context.Context, userID uuid.UUID) (*models.Story, error) {
	return s.CreateStory(ctx, userID, SampleStory())
}

// GenerateStory запускает конвейер и сохраняет результат для
// аутентифицированного пользователя. Ошибка сохранения возвращается как
// *generation.PersistenceError вместе с готовой историей.
func (s *storyServiceImpl) GenerateStory(ctx context.Context, userID uuid.UUID, input models.StoryInput) (story *models.Story, err error) {
	defer func() { observeOp(storyOperationsTotal, "generate", err) }()

	story, err = s.generator.Generate(ctx, input)
	if err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return story, nil
	}

	story.UserID = userID.String()
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.repo.Create(persistCtx, story); err != nil {
		s.logger.Error("Generated story could not be saved",
			zap.String("storyID", story.ID),
			zap.String("userID", story.UserID),
			zap.Error(err),
		)
		return nil, &generation.PersistenceError{Story: story, Err: err}
	}
	s.invalidateFeed()
	s.logger.Info("Generated story saved", zap.String("storyID", story.ID), zap.String("userID", story.UserID))
	return story, nil
}

func (s *storyServiceImpl) invalidateFeed() {
	if s.feedCache != nil {
		s.feedCache.Flush()
	}
}

func checkStoryID(storyID string) error {
	if _, err := uuid.Parse(storyID); err != nil {
		return models.ErrInvalidStoryID
	}
	return nil
}

func normalizeStory(story *models.Story) {
	if story.Likes == nil {
		story.Likes = []string{}
	}
	if story.LikesCount < 0 {
		story.LikesCount = 0
	}
}

func normalizeLikes(stories []models.Story) []models.Story {
	if stories == nil {
		return []models.Story{}
	}
	for i := range stories {
		normalizeStory(&stories[i])
	}
	return stories
}
