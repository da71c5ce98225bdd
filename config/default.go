package config

import (
	"github.com/ohsu-comp-bio/yatamana/logger"
)

// DefaultChunkSize is the number of tasks per chunk when no chunk_size is
// configured for a class.
const DefaultChunkSize = 5

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	return Config{
		Manager:       "local",
		StrictOptions: true,
		Logger:        logger.DefaultConfig(),
		Runner: &Runner{
			Template: []string{
				"#!/bin/bash",
				"set -e",
				"%(command)s",
			},
			Opts: map[string]interface{}{},
		},
		Tasks: map[string]map[string]interface{}{},
	}
}
