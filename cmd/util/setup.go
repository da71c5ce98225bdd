package util

import (
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/logger"
	"github.com/ohsu-comp-bio/yatamana/manager"
	"github.com/ohsu-comp-bio/yatamana/version"
)

// NewManager returns a manager and its logger for the configured batch
// system. Commands set manager.Launcher to nil to run the real submission
// command.
func NewManager(conf config.Config, run manager.Launcher) (*manager.Manager, *logger.Logger, error) {
	logger.Configure(conf.Logger)
	log := logger.NewSubLogger("yatamana")
	log.Debug("Version", version.LogFields()...)

	backend, err := manager.NewBackend(conf.Manager)
	if err != nil {
		return nil, log, err
	}
	m, err := manager.NewManager(conf, backend, run, log.NewSubLogger("manager"))
	if err != nil {
		return nil, log, err
	}
	return m, log, nil
}
