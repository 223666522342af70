package main

import (
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/cryptojackpot/lottery/internal/middleware"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/pkg/router"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadSubscriber()
	s.loadRouter()

	s.subscriber.Subscribe(s.ctx)

	s.httpServer = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := s.httpServer.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)

	// Availability is public, anyone browsing a draw can see it.
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/getAvailableNumbers", s.inventoryDomain.GetAvailableNumbers)
		router.GET(publicRouter, "/checkAvailability", s.inventoryDomain.IsAvailable)
		router.GET(publicRouter, "/getStats", s.statisticDomain.GetStats)
	}

	// Claiming or releasing units needs an authenticated caller.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.AuthVerifier())
	{
		router.POST(authRouter, "/reserveNumbers", s.inventoryDomain.ReserveNumbers)
		router.POST(authRouter, "/reserveByQuantity", s.inventoryDomain.ReserveByQuantity)
		router.POST(authRouter, "/releaseNumbers", s.inventoryDomain.ReleaseNumbers)
		router.POST(authRouter, "/startCampaign", s.campaignDomain.StartCampaign)

		router.Websocket[model.ServeAvailabilityClientRequest](
			authRouter, "/ws/lottery", s.availabilityDomain.ServeClient)
	}
}
