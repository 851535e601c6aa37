package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"poi-map-server/handlers"
	"poi-map-server/middleware"
	"poi-map-server/models"
	"poi-map-server/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment as-is")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set")
	}

	ctx := context.Background()

	// Persistence: Redis when configured, in-process memory otherwise.
	var kv services.KV
	var redisClient *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisDB := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			redisDB, err = strconv.Atoi(raw)
			if err != nil {
				logger.Fatal("invalid REDIS_DB value", zap.Error(err))
			}
		}
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr, DB: redisDB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		kv = services.NewRedisKV(redisClient)
		logger.Info("connected to Redis", zap.String("addr", redisAddr))
	} else {
		kv = services.NewMemoryKV()
		logger.Warn("REDIS_ADDR not set, POIs will not survive restarts")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		logger.Fatal("MONGODB_URI environment variable is not set")
	}
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")
	userCollection := mongoClient.Database("poi_map").Collection("users")

	// Core: store, rendered map mirror and the view deriving from both.
	persistence := services.NewPersistenceService(kv, logger)
	store := services.NewPOIStore(persistence, logger)
	rendered := services.NewRenderedMap(models.DefaultViewport())
	view := services.NewMapView(store, rendered, logger)
	store.LoadInitial(ctx)

	userService := services.NewUserService(userCollection, redisClient, jwtSecret, logger)
	geoService := services.NewGeoService(os.Getenv("MAPBOX_TOKEN"), logger)

	poiHandler := handlers.NewPOIHandler(store)
	viewHandler := handlers.NewViewHandler(view, rendered)
	geoHandler := handlers.NewGeoHandler(geoService)
	authHandler := handlers.NewAuthHandler(userService)

	r := mux.NewRouter()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		allowedOrigins = strings.Split(raw, ",")
	}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.RecoveryMiddleware())

	protect := middleware.JWTMiddleware(jwtSecret)

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.RegisterUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.LoginUser).Methods("POST", "OPTIONS")

	// POI routes: reads are open, mutations require a token.
	r.HandleFunc("/pois", poiHandler.ListPOIs).Methods("GET", "OPTIONS")
	r.HandleFunc("/pois/export", poiHandler.ExportPOIs).Methods("GET", "OPTIONS")
	r.Handle("/pois", protect(http.HandlerFunc(poiHandler.CreatePOI))).Methods("POST", "OPTIONS")
	r.Handle("/pois/import", protect(http.HandlerFunc(poiHandler.ImportPOIs))).Methods("POST", "OPTIONS")
	r.Handle("/pois/reset", protect(http.HandlerFunc(poiHandler.ResetPOIs))).Methods("POST", "OPTIONS")
	r.Handle("/pois/{id}", protect(http.HandlerFunc(poiHandler.UpdatePOI))).Methods("PATCH", "OPTIONS")
	r.Handle("/pois/{id}", protect(http.HandlerFunc(poiHandler.DeletePOI))).Methods("DELETE", "OPTIONS")

	// View routes: GET is the only open one, everything else writes shared view state.
	r.HandleFunc("/view", viewHandler.GetView).Methods("GET", "OPTIONS")
	r.Handle("/view/filter", protect(http.HandlerFunc(viewHandler.SetFilter))).Methods("PUT", "OPTIONS")
	r.Handle("/view/fit", protect(http.HandlerFunc(viewHandler.FitView))).Methods("POST", "OPTIONS")
	r.Handle("/view/actions", protect(http.HandlerFunc(viewHandler.DispatchAction))).Methods("POST", "OPTIONS")
	r.Handle("/view/markers/{id}/dragstart", protect(http.HandlerFunc(viewHandler.DragStart))).Methods("POST", "OPTIONS")
	r.Handle("/view/markers/{id}/dragend", protect(http.HandlerFunc(viewHandler.DragEnd))).Methods("POST", "OPTIONS")
	r.Handle("/view/markers/{id}/cancel-edit", protect(http.HandlerFunc(viewHandler.CancelEdit))).Methods("POST", "OPTIONS")

	// Geocoding/directions boundary
	r.HandleFunc("/geocode", geoHandler.Geocode).Methods("GET", "OPTIONS")
	r.HandleFunc("/route", geoHandler.Route).Methods("GET", "OPTIONS")

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
