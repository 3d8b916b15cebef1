package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const retryDelay = 5 * time.Second

// withRetry runs attempt up to maxRetries times with a fixed delay
// between failures. Containers routinely come up before their backing
// services do, so every external connection goes through here.
func withRetry(name string, maxRetries int, attempt func() error) error {
	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = attempt(); lastErr == nil {
			zap.L().Info("connected", zap.String("target", name))
			return nil
		}
		zap.L().Warn("connection attempt failed",
			zap.String("target", name),
			zap.Int("attempt", i),
			zap.Int("max", maxRetries),
			zap.Error(lastErr),
		)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("%s connection failed after %d retries: %w", name, maxRetries, lastErr)
}

func ConnectGORMWithRetry(
	host, user, password, dbname, port, sslmode string,
	maxRetries int,
) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode,
	)

	var db *gorm.DB
	err := withRetry("postgres", maxRetries, func() error {
		opened, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}

		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		db = opened
		return nil
	})
	return db, err
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	err := withRetry("redis", maxRetries, func() error {
		return rdb.Ping(context.Background()).Err()
	})
	if err != nil {
		return nil, err
	}
	return rdb, nil
}

func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	err := withRetry("kafka", maxRetries, func() error {
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		return nil, err
	}

	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.LeastBytes{},
		AllowAutoTopicCreation: true,
	}, nil
}
