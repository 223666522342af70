package main

import (
	"github.com/urfave/cli/v2"

	"github.com/cryptojackpot/lottery/internal/entity"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration finished")
	return nil
}
