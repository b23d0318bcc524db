package commands

import (
	"os"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relaygrid/relaygrid/src/config"
)

var _config = config.NewDefaultConfig()

func init() {
	RootCmd.PersistentFlags().StringP("datadir", "d", _config.DataDir, "Top-level directory for configuration and keys")
	RootCmd.PersistentFlags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	RootCmd.PersistentFlags().String("app-name", _config.AppName, "Application namespace on the relay")
	RootCmd.PersistentFlags().String("self", _config.SelfAddress, "Coordinator address on the relay")
	RootCmd.PersistentFlags().String("relay-dir", _config.RelayDir, "Root of the synced relay directory")
	RootCmd.PersistentFlags().Bool("store", _config.Store, "Use the badger transport instead of the file transport")
	RootCmd.PersistentFlags().String("db", _config.DatabaseDir, "Directory for the badger transport database")
	RootCmd.PersistentFlags().Duration("poll-interval", _config.PollInterval, "Sleep between reply polls")
	RootCmd.PersistentFlags().DurationP("timeout", "t", _config.Timeout, "Deadline for gathering replies")
	RootCmd.PersistentFlags().Duration("ttl", _config.TTL, "Default message time-to-live")
	RootCmd.PersistentFlags().Duration("stop-ttl", _config.StopTTL, "Time-to-live of the stop broadcast")
	RootCmd.PersistentFlags().Bool("no-encryption", _config.NoEncryption, "Disable payload encryption")

	viper.SetEnvPrefix("RELAYGRID")
	viper.AutomaticEnv()
}

// RootCmd is the root command for relaygrid.
var RootCmd = &cobra.Command{
	Use:              "relaygrid",
	Short:            "Round orchestrator for store-and-forward participants",
	TraverseChildren: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func loadConfig(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	datadir, err := cmd.Flags().GetString("datadir")
	if err != nil {
		return err
	}

	viper.AddConfigPath(datadir)
	viper.SetConfigName("relaygrid")

	if err := viper.ReadInConfig(); err != nil {
		_config.Logger().Warn(err, ". Taking cli or default.")
	}

	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	_config.SetDataDir(datadir)

	logger := newLogger()
	logger.Level = config.LogLevel(_config.LogLevel)
	_config.SetLogger(logger)

	logger.WithFields(logrus.Fields{
		"datadir":       _config.DataDir,
		"app-name":      _config.AppName,
		"self":          _config.SelfAddress,
		"relay-dir":     _config.RelayDir,
		"store":         _config.Store,
		"poll-interval": _config.PollInterval,
		"timeout":       _config.Timeout,
		"no-encryption": _config.NoEncryption,
	}).Debug("RUN")

	return nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	pathMap := lfshook.PathMap{}

	_, err := os.OpenFile("relaygrid_info.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open relaygrid_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = "relaygrid_info.log"
	}

	_, err = os.OpenFile("relaygrid_debug.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open relaygrid_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = "relaygrid_debug.log"
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))

	return logger
}
