package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"poi-map-server/models"
	"poi-map-server/utils/errors"
)

// Register creates an editor account and returns its public id.
func (s *UserService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || password == "" {
		return "", errors.ErrInvalidInput
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	user := models.User{
		PublicID:     uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.NewAPIError("USERNAME_TAKEN", "Username is already registered", http.StatusConflict)
		}
		return "", errors.Wrap(err, "DB_ERROR", "Failed to create user", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user.PublicID, nil
}

// Login verifies credentials and issues a 24h HS256 token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID":   user.PublicID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to sign token", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return tokenString, nil
}
