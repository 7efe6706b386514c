package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_IsNop(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected no-op logger to have every level disabled")
	}
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantErr   bool
		enabled   zapcore.Level
		disabled  zapcore.Level
		checkLvls bool
	}{
		{level: "INFO", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel, checkLvls: true},
		{level: "debug", enabled: zapcore.DebugLevel, checkLvls: false},
		{level: "error", enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel, checkLvls: true},
		{level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New()
			err := l.Init(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Init(%q) expected error", tt.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("Init(%q) returned error: %v", tt.level, err)
			}
			if !l.Log.Core().Enabled(tt.enabled) {
				t.Errorf("expected %s to be enabled", tt.enabled)
			}
			if tt.checkLvls && l.Log.Core().Enabled(tt.disabled) {
				t.Errorf("expected %s to be disabled", tt.disabled)
			}
		})
	}
}
