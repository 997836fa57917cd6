package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("ndimpute failed", zap.Error(err))
		os.Exit(1)
	}
}
