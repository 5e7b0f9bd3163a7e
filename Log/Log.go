package Log

import (
	"VeraoNet/ID"
	"io"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInit builds the run logger. loglevel 0 is info, 1 is debug. An empty logFile
// keeps logs on stderr, otherwise they go through a rotating file.
func LoggerInit(loglevel int, runId ID.RunID, logFile string) *zap.SugaredLogger {

	var level zap.AtomicLevel
	switch loglevel {
	case 1:
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	writeSyncer := getLogWriter(logFile)
	core := zapcore.NewCore(getEncoder(), writeSyncer, level)
	logger := zap.New(core, zap.ErrorOutput(zapcore.Lock(writeSyncer))).
		With(zap.String("RunID", runId.String()))

	return logger.Sugar()

}

func getEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
}

func getLogWriter(fileName string) zapcore.WriteSyncer {

	if fileName != "" {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   fileName,
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
			Compress:   false,
		}

		return zapcore.AddSync(lumberJackLogger)
	}

	open, _, err := zap.Open("stderr")
	if err != nil {
		return zapcore.AddSync(io.Discard)
	}
	return open

}
