package testconfig

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/logger"
)

// TestifyConfig points shared directories and stores of conf at a
// temporary directory owned by the test and fixes the salt, so runner
// and log paths are predictable.
func TestifyConfig(t testing.TB, conf config.Config) config.Config {
	dir := t.TempDir()
	conf.SharedTmp = dir
	conf.Salt = "test" + RandomString(4)
	if conf.JobStore != "" {
		conf.JobStore = filepath.Join(dir, "jobs.db")
	}
	conf.Logger = LogConfig()
	return conf
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

// LogConfig returns logger configuration useful for tests, which has a text indent.
func LogConfig() logger.Config {
	conf := logger.DefaultConfig()
	conf.Level = "debug"
	conf.TextFormat.ForceColors = true
	conf.TextFormat.Indent = "        "
	return conf
}
