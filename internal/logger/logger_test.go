package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevelAndFormat(t *testing.T) {
	log := New("debug", "text")
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("formatter = %T, want text", log.Formatter)
	}

	log = New("bogus", "")
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info fallback", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("formatter = %T, want json", log.Formatter)
	}
}
