package alert

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level mirrors the notification styles of the submission page.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Alerter surfaces a dismissible, non-fatal notification to the user.
type Alerter interface {
	Alert(level Level, message string)
}

// Func adapts a plain function to an Alerter.
type Func func(level Level, message string)

func (f Func) Alert(level Level, message string) {
	f(level, message)
}

// Nop discards every alert.
type Nop struct{}

func (Nop) Alert(Level, string) {}

// Log writes alerts to the global zerolog logger.
type Log struct{}

func (Log) Alert(level Level, message string) {
	log.WithLevel(zerologLevel(level)).Str("alert", string(level)).Msg(message)
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDanger:
		return zerolog.ErrorLevel
	case LevelWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Multi fans an alert out to several alerters in order.
type Multi []Alerter

func (m Multi) Alert(level Level, message string) {
	for _, a := range m {
		if a != nil {
			a.Alert(level, message)
		}
	}
}
