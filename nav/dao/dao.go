package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pascaldisse/mxo-decompiled/common/config"
	"github.com/pascaldisse/mxo-decompiled/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dao 导航服务持久化层 按数据库url协议选择后端
type Dao struct {
	mongo   *mongo.Client
	mongoDb *mongo.Database
	gormDb  *gorm.DB
	redis   *redis.Client
}

func NewDao() (*Dao, error) {
	r := new(Dao)

	dbUrl := config.GetConfig().Database.Url
	if strings.Contains(dbUrl, "mongodb://") {
		clientOptions := options.Client().ApplyURI(dbUrl)
		clientOptions = clientOptions.SetMinPoolSize(10)
		clientOptions = clientOptions.SetMaxPoolSize(100)
		client, err := mongo.Connect(context.TODO(), clientOptions)
		if err != nil {
			logger.Error("mongo connect error: %v", err)
			return nil, err
		}
		err = client.Ping(context.TODO(), readpref.Primary())
		if err != nil {
			logger.Error("mongo ping error: %v", err)
			return nil, err
		}
		r.mongo = client
		r.mongoDb = client.Database("nav")
	} else {
		if strings.Contains(dbUrl, "mysql://") {
			dsn := strings.ReplaceAll(dbUrl, "mysql://", "")
			db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Warn),
			})
			if err != nil {
				logger.Error("gorm open error: %v", err)
				return nil, err
			}
			r.gormDb = db
			sqlDb, err := db.DB()
			if err != nil {
				logger.Error("sql db open error: %v", err)
				return nil, err
			}
			sqlDb.SetMaxIdleConns(10)
			sqlDb.SetMaxOpenConns(100)
			sqlDb.SetConnMaxLifetime(time.Hour)
		} else if strings.Contains(dbUrl, "sqlite://") {
			dsn := strings.ReplaceAll(dbUrl, "sqlite://", "")
			db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Warn),
			})
			if err != nil {
				logger.Error("gorm open error: %v", err)
				return nil, err
			}
			r.gormDb = db
		} else {
			err := errors.New(fmt.Sprintf("not support db type, url: %v", dbUrl))
			logger.Error("%v", err)
			return nil, err
		}
		tableList := []any{new(TriggerGorm), new(WorldGorm)}
		for _, table := range tableList {
			err := r.gormDb.AutoMigrate(table)
			if err != nil {
				logger.Error("auto migrate error: %v", err)
				return nil, err
			}
		}
	}

	redisAddr := config.GetConfig().Redis.Addr
	if redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     strings.ReplaceAll(redisAddr, "redis://", ""),
			Password: config.GetConfig().Redis.Password,
		})
		_, err := redisClient.Ping(context.TODO()).Result()
		if err != nil {
			logger.Error("redis ping error: %v", err)
			return nil, err
		}
		r.redis = redisClient
	}

	return r, nil
}

func (d *Dao) Close() {
	if d.mongo != nil {
		err := d.mongo.Disconnect(context.TODO())
		if err != nil {
			logger.Error("mongo disconnect error: %v", err)
		}
	}
	if d.gormDb != nil {
		sqlDb, err := d.gormDb.DB()
		if err == nil {
			_ = sqlDb.Close()
		}
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
