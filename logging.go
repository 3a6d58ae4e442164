package main

import (
	"os"

	"blogapi/config"

	log "github.com/sirupsen/logrus"
)

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Env == config.DevEnv {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("err", err).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
