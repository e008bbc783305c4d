package main

import (
	"PostPilot/internal/repository"
	"PostPilot/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
