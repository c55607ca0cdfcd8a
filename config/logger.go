package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the process logger. Unknown levels fall back to info and
// any format other than "text" logs JSON.
func InitLogger(level, format string) *logrus.Logger {
	log := logrus.New()

	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
