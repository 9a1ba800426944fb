package factory

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"sombot-backend/cache"
	"sombot-backend/config"
	"sombot-backend/logger"

	firebase "firebase.google.com/go"
	"github.com/go-redis/redis"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

var db sync.Once
var fa sync.Once
var rc sync.Once

type Factory interface {
	DB(ctx context.Context) *sql.DB
	FirebaseApp(ctx context.Context) *firebase.App
	Cache(ctx context.Context) *cache.Cache
}

type factory struct {
	db    *sql.DB
	app   *firebase.App
	cache *cache.Cache
}

func NewFactory() Factory {
	return &factory{}
}

func (f *factory) DB(ctx context.Context) *sql.DB {
	var dbError error
	db.Do(func() {
		sqlDB, err := sql.Open("mysql", viper.GetString(config.DBURL))
		if err != nil {
			log.Fatal("Error creating connection pool: ", err.Error())
		}

		f.db = sqlDB
		dbError = err
	})

	if dbError != nil {
		logger.Fatalf(ctx, "Could not establish connection to the DB: %+v", dbError)
	}

	return f.db
}

func (f *factory) FirebaseApp(ctx context.Context) *firebase.App {
	var faError error
	fa.Do(func() {
		opt := option.WithCredentialsFile(viper.GetString(config.FirebaseServiceAccountKeyPath))
		app, err := firebase.NewApp(context.Background(), &firebase.Config{
			StorageBucket: viper.GetString(config.FirebaseStorageBucket),
		}, opt)
		if err != nil {
			logger.Fatalf(ctx, "firebaseApp: error initializing firebase app: %+v", err)
		}

		f.app = app
		faError = err
	})

	if faError != nil {
		logger.Fatalf(ctx, "Could not initialize the firebase app: %+v", faError)
	}

	return f.app
}

func (f *factory) Cache(ctx context.Context) *cache.Cache {
	rc.Do(func() {
		address := viper.GetString(config.RedisAddress)
		if address == "" {
			logger.Infof(ctx, "cache: no redis address configured, event cache disabled")
			return
		}

		client := redis.NewClient(&redis.Options{
			Addr:     address,
			Password: viper.GetString(config.RedisPassword),
			DB:       viper.GetInt(config.RedisDB),
		})

		ttl := time.Duration(viper.GetInt(config.EventCacheTTL)) * time.Second
		f.cache = cache.New(client, ttl)
	})

	return f.cache
}
