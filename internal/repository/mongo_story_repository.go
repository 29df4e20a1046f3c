package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-magic/internal/interfaces"
	"story-magic/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// StoriesCollection имя коллекции историй.
const StoriesCollection = "stories"

// Compile-time check to ensure mongoStoryRepository implements StoryRepository
var _ interfaces.StoryRepository = (*mongoStoryRepository)(nil)

type mongoStoryRepository struct {
	coll   *mongo.Collection
	now    func() time.Time
	logger *zap.Logger
}

// NewMongoStoryRepository creates a new MongoDB-backed StoryRepository.
func NewMongoStoryRepository(db *mongo.Database, logger *zap.Logger) interfaces.StoryRepository {
	return &mongoStoryRepository{
		coll:   db.Collection(StoriesCollection),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.Named("MongoStoryRepo"),
	}
}

// EnsureIndexes создает индекс {userId: 1, createdAt: -1} для выборок по владельцу.
func (r *mongoStoryRepository) EnsureIndexes(ctx context.Context) error {
	name, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt"),
	})
	if err != nil {
		r.logger.Error("Failed to create stories index", zap.Error(err))
		return fmt.Errorf("failed to create stories index: %w", err)
	}
	r.logger.Info("Stories index ensured", zap.String("index", name))
	return nil
}

// Create inserts a story document.
func (r *mongoStoryRepository) Create(ctx context.Context, story *models.Story) error {
	if story.Likes == nil {
		// $addToSet не работает с null
		story.Likes = []string{}
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = r.now()
	}
	if story.UpdatedAt.IsZero() {
		story.UpdatedAt = story.CreatedAt
	}

	if _, err := r.coll.InsertOne(ctx, story); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Story with this ID already exists", zap.String("storyID", story.ID))
			return fmt.Errorf("story %s already exists: %w", story.ID, models.ErrInvalidInput)
		}
		r.logger.Error("Failed to insert story", zap.Error(err), zap.String("storyID", story.ID))
		return fmt.Errorf("failed to insert story: %w", err)
	}
	r.logger.Info("Story created", zap.String("storyID", story.ID), zap.String("userID", story.UserID), zap.Int("scenes", len(story.Scenes)))
	return nil
}

// GetByID returns the owner's story.
func (r *mongoStoryRepository) GetByID(ctx context.Context, id, userID string) (*models.Story, error) {
	var story models.Story
	err := r.coll.FindOne(ctx, ownerFilter(id, userID)).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story", zap.Error(err), zap.String("storyID", id))
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return &story, nil
}

// ListByUser returns the user's stories, newest first.
func (r *mongoStoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	return r.find(ctx, bson.M{"userId": userID}, 0)
}

// ListPublic returns stories of other users, newest first.
func (r *mongoStoryRepository) ListPublic(ctx context.Context, excludeUserID string, limit int) ([]models.Story, error) {
	return r.find(ctx, bson.M{"userId": bson.M{"$ne": excludeUserID}}, limit)
}

func (r *mongoStoryRepository) find(ctx context.Context, filter bson.M, limit int) ([]models.Story, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query stories", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	stories := make([]models.Story, 0)
	if err := cursor.All(ctx, &stories); err != nil {
		r.logger.Error("Failed to decode stories", zap.Error(err))
		return nil, fmt.Errorf("failed to decode stories: %w", err)
	}
	return stories, nil
}

// Update applies the non-nil fields of update to the owner's story.
func (r *mongoStoryRepository) Update(ctx context.Context, id, userID string, update models.StoryUpdate) (*models.Story, error) {
	set := bson.M{"updatedAt": r.now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Genre != nil {
		set["genre"] = *update.Genre
	}
	if update.Characters != nil {
		set["characters"] = *update.Characters
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Scenes != nil {
		set["scenes"] = *update.Scenes
	}
	if update.CoverImage != nil {
		set["coverImage"] = *update.CoverImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var story models.Story
	err := r.coll.FindOneAndUpdate(ctx, ownerFilter(id, userID), bson.M{"$set": set}, opts).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to update story", zap.Error(err), zap.String("storyID", id))
		return nil, fmt.Errorf("failed to update story %s: %w", id, err)
	}
	r.logger.Info("Story updated", zap.String("storyID", id), zap.Int("fields", len(set)-1))
	return &story, nil
}

// Delete removes the owner's story.
func (r *mongoStoryRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.coll.DeleteOne(ctx, ownerFilter(id, userID))
	if err != nil {
		r.logger.Error("Failed to delete story", zap.Error(err), zap.String("storyID", id))
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrStoryNotFound
	}
	r.logger.Info("Story deleted", zap.String("storyID", id), zap.String("userID", userID))
	return nil
}

// ToggleLike снимает лайк, если он есть, иначе ставит. Каждая ветка это
// один условный FindOneAndUpdate: пользователь учтен в likesCount не больше одного раза.
func (r *mongoStoryRepository) ToggleLike(ctx context.Context, id, userID string) (*models.LikeResult, error) {
	log := r.logger.With(zap.String("storyID", id), zap.String("userID", userID))
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likesCount": 1})

	// Несколько попыток на случай, если лайк переключили между двумя ветками
	for attempt := 0; attempt < 3; attempt++ {
		var counter struct {
			LikesCount int `bson:"likesCount"`
		}

		// Снять лайк: счетчик не опускается ниже нуля
		unlike := bson.A{bson.M{"$set": bson.M{
			"likes":      bson.M{"$setDifference": bson.A{"$likes", bson.A{userID}}},
			"likesCount": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$likesCount", 1}}}},
		}}}
		err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "likes": userID}, unlike, opts).Decode(&counter)
		if err == nil {
			log.Debug("Story unliked", zap.Int("likesCount", counter.LikesCount))
			return &models.LikeResult{Liked: false, LikesCount: counter.LikesCount}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error("Failed to unlike story", zap.Error(err))
			return nil, fmt.Errorf("failed to unlike story %s: %w", id, err)
		}

		like := bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$inc":      bson.M{"likesCount": 1},
		}
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "likes": bson.M{"$ne": userID}}, like, opts).Decode(&counter)
		if err == nil {
			log.Debug("Story liked", zap.Int("likesCount", counter.LikesCount))
			return &models.LikeResult{Liked: true, LikesCount: counter.LikesCount}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error("Failed to like story", zap.Error(err))
			return nil, fmt.Errorf("failed to like story %s: %w", id, err)
		}

		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("failed to check story %s: %w", id, err)
		}
		if count == 0 {
			return nil, models.ErrStoryNotFound
		}
		log.Debug("Like toggled concurrently, retrying", zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("failed to toggle like on story %s: too much contention", id)
}

func ownerFilter(id, userID string) bson.M {
	return bson.M{"_id": id, "userId": userID}
}
