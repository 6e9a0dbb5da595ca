package main

import (
	"tourwise/config"
	"tourwise/di"
	"tourwise/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
