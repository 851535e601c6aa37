package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"poi-map-server/models"
)

const userCacheTTL = 24 * time.Hour

// UserService stores editor accounts in MongoDB with a Redis read cache.
type UserService struct {
	collection  *mongo.Collection
	redisClient *redis.Client
	jwtSecret   string
	logger      *zap.Logger
}

func NewUserService(collection *mongo.Collection, redisClient *redis.Client, jwtSecret string, logger *zap.Logger) *UserService {
	if collection != nil {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
			logger.Warn("failed to ensure unique username index", zap.Error(err))
		}
	}
	return &UserService{
		collection:  collection,
		redisClient: redisClient,
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// GetUser resolves a user by public id, Redis cache first.
func (s *UserService) GetUser(ctx context.Context, publicID string) (models.User, error) {
	var user models.User

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, "user:"+publicID).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return user, nil
			}
			s.logger.Warn("dropping unreadable cached user", zap.String("public_id", publicID))
		}
	}

	if err := s.collection.FindOne(ctx, bson.M{"public_id": publicID}).Decode(&user); err != nil {
		return models.User{}, err
	}
	s.cacheUser(ctx, user)
	return user, nil
}

func (s *UserService) cacheUser(ctx context.Context, user models.User) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, "user:"+user.PublicID, raw, userCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache user", zap.Error(err))
	}
}
