package main

import (
	"os"
	"strconv"
	"time"

	"github.com/cryptojackpot/lottery/config"
	"github.com/cryptojackpot/lottery/internal/model"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "lottery"),
			User:     getEnv("MYSQL_USER", "lottery"),
			Password: getEnv("MYSQL_PASSWORD", "lottery"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", ""),
			Port: getEnv("PORT", "8080"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: config.KafkaConfigs{
			Addr:          getEnv("KAFKA_ADDR", "localhost:9092"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", model.LotteryConsumerGroup),
		},
		Lottery: config.LotteryConfigs{
			GenerationBatchSize:     getInt("GENERATION_BATCH_SIZE", 1000),
			ReservationTimeout:      getDuration("RESERVATION_TIMEOUT", 15*time.Minute),
			StatsCacheTTL:           getDuration("STATS_CACHE_TTL", 10*time.Second),
			CampaignResponseTimeout: getDuration("CAMPAIGN_RESPONSE_TIMEOUT", 2*time.Minute),
			CampaignBatchSize:       getInt("CAMPAIGN_BATCH_SIZE", 100),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
