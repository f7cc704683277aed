package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"agendly/config"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// PlanningCacheClient is the dedicated client for planner access codes.
	PlanningCacheClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitPlanningCache initializes the Redis client for planner access codes.
func InitPlanningCache() {
	PlanningCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPlanningDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PlanningCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Planning): %v", err)
	}
}

// GetPlanningCacheClient returns the Redis client for planner access codes.
func GetPlanningCacheClient() *redis.Client {
	if PlanningCacheClient == nil {
		InitPlanningCache()
	}
	return PlanningCacheClient
}
