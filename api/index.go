package handler

import (
	"net/http"
	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/di"
	"github.com/lphuocloc/Oasis-Go-BE/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
