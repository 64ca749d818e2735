package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stdout текстом с уровнем info, так что пакеты
// и тесты могут логировать без явной инициализации.
var Log = newLogger(os.Stdout, "info", "text")

// Init перенастраивает глобальный логгер по конфигу.
// Вызывается один раз при старте в main.go.
func Init(level, format string) {
	Log = newLogger(os.Stdout, level, format)
}

// SetOutput перенаправляет вывод (тесты глушат логи через io.Discard).
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

func newLogger(out io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()

	// Неизвестный уровень не валит сервер, а откатывается на info
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	// "json" - для продакшена и сбора логов, "text" - для разработки
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	l.SetOutput(out)
	return l
}
