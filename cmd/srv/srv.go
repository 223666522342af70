package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/cryptojackpot/lottery/config"
	"github.com/cryptojackpot/lottery/internal/domain"
	"github.com/cryptojackpot/lottery/internal/domain/availability"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/kafka"
	"github.com/cryptojackpot/lottery/pkg/logger"
	"github.com/cryptojackpot/lottery/pkg/pubsub"
	"github.com/cryptojackpot/lottery/pkg/router"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
	"github.com/cryptojackpot/lottery/pkg/xredis"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber

	center *availability.Center

	drawRepo repository.DrawRepository
	unitRepo repository.InventoryUnitRepository

	inventoryDomain    domain.InventoryDomain
	statisticDomain    domain.StatisticDomain
	generationDomain   domain.GenerationDomain
	reconcileDomain    domain.ReconcileDomain
	campaignDomain     domain.CampaignDomain
	availabilityDomain domain.AvailabilityDomain

	router     *router.Router
	httpServer *http.Server
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadRedis() {
	if s.configs.Redis.Addr == "" {
		s.logger.Warnf("No redis address configured, stats caching is disabled")
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		// The stats cache is an optimization, the service can run without it.
		s.logger.Warnf("Cannot connect to redis, stats caching is disabled: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("lottery-engine", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.drawRepo = repository.NewDrawRepository()
	s.unitRepo = repository.NewInventoryUnitRepository()
}

func (s *srv) loadDomains() {
	s.center = availability.NewCenter()

	s.inventoryDomain = domain.NewInventoryDomain(s.drawRepo, s.unitRepo, s.center)
	s.statisticDomain = domain.NewStatisticDomain(s.drawRepo, s.unitRepo, s.redisClient)
	s.generationDomain = domain.NewGenerationDomain(s.drawRepo, s.unitRepo)
	s.reconcileDomain = domain.NewReconcileDomain(s.unitRepo, s.center)
	s.campaignDomain = domain.NewCampaignDomain(s.publisher)
	s.availabilityDomain = domain.NewAvailabilityDomain(
		s.drawRepo, s.unitRepo, s.inventoryDomain, s.center)
}
