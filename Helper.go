package main

import (
	"go.uber.org/zap"
)

// CheckErr ends the process with status 1 when err is set
func CheckErr(logger *zap.SugaredLogger, err error) {

	if err != nil {
		logger.Fatalw("run failed", "error", err)
	}

}
