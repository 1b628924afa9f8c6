package main

import (
	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/di"
	"github.com/lphuocloc/Oasis-Go-BE/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
