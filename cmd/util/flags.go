package util

import (
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/spf13/pflag"
)

// ConfigFlags returns a new flag set for configuring a manager. Flags
// left unset keep the values of the config file.
func ConfigFlags(flagConf *config.Config, configFile *string, lenient *bool) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.AddFlagSet(managerFlags(flagConf, lenient))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

func managerFlags(flagConf *config.Config, lenient *bool) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(&flagConf.Manager, "manager", "m", flagConf.Manager, "Batch system: local, sge or slurm")
	f.StringVar(&flagConf.SubmitCommand, "submit-command", flagConf.SubmitCommand, "Submission command, e.g. /usr/bin/sbatch")
	f.StringVar(&flagConf.Salt, "salt", flagConf.Salt, "Value of %(salt)s in job names")
	f.StringVar(&flagConf.SharedTmp, "shared-tmp", flagConf.SharedTmp, "Directory shared with the compute nodes")
	f.BoolVarP(&flagConf.DryRun, "dry-run", "n", flagConf.DryRun, "Print the submission commands instead of running them")
	f.BoolVar(lenient, "lenient", *lenient, "Drop options the batch system cannot map instead of failing")
	f.Float64Var(&flagConf.SubmitRate, "submit-rate", flagConf.SubmitRate, "Maximum submissions per second")
	f.Var(&flagConf.SubmitTimeout, "submit-timeout", "Timeout of a single submission command")
	f.StringVar(&flagConf.JobStore, "job-store", flagConf.JobStore, "Path of the job journal")
	f.StringVar(&flagConf.MetricsFile, "metrics-file", flagConf.MetricsFile, "Write submission metrics to this file")

	return f
}

func loggerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level, "Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile, "File path to write logs to")
	f.StringVar(&flagConf.Logger.Formatter, "Logger.Formatter", flagConf.Logger.Formatter, "Logs formatter. One of ['text', 'json']")

	return f
}
