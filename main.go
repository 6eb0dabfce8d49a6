package main

import (
	"woki-api/core/logger"
	"woki-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
