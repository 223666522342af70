package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Lottery   LotteryConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr          string
	ConsumerGroup string
}

type LotteryConfigs struct {
	// GenerationBatchSize bounds the size of each bulk insert when the
	// inventory of a draw is materialized.
	GenerationBatchSize int

	// ReservationTimeout is stamped on reserved units so an expiry sweeper
	// knows when a claim becomes stale.
	ReservationTimeout time.Duration

	// StatsCacheTTL bounds how stale the cached draw statistics may be.
	StatsCacheTTL time.Duration

	CampaignResponseTimeout time.Duration
	CampaignBatchSize       int
}
