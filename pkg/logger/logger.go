package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

// Init инициализирует глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	Log = logrus.New()

	// 1. Уровень логирования берем из переменной окружения.
	// По умолчанию - "info". Для отладки симуляции можно выставить "debug".
	logLevel, ok := os.LookupEnv("ECOSIM_LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	logFormat := strings.ToLower(os.Getenv("ECOSIM_LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

func init() {
	// Страховка для тестов и библиотечного использования:
	// пока Init() не вызван, логгер пишет только предупреждения.
	if Log == nil {
		Log = logrus.New()
		Log.SetLevel(logrus.WarnLevel)
		Log.SetOutput(os.Stderr)
	}
}
