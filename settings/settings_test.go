package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSaveDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmove.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatal(err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("saving over an existing file must fail")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s != DefaultSettings() {
		t.Fatalf("loaded settings differ from the defaults:\n%+v\n%+v", s, DefaultSettings())
	}
	if s.Movement.Fingerprint() != DefaultSettings().Movement.Fingerprint() {
		t.Fatalf("movement fingerprint changed across a save and load")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmove.toml")
	data := "[Movement]\nSpeedRun = 320.0\n\n[Log]\nLevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Movement.SpeedRun != 320 {
		t.Fatalf("expected SpeedRun 320, got %v", s.Movement.SpeedRun)
	}
	if s.Movement.SpeedJump != DefaultSettings().Movement.SpeedJump {
		t.Fatalf("unset keys must keep their defaults")
	}
	if s.LogLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", s.LogLevel())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"missing.toml": "",
		"garbage.toml": "this is = = not toml",
		"tick.toml":    "[Server]\nTickMillis = 0\n",
		"level.toml":   "[Log]\nLevel = \"loud\"\n",
		"predict.toml": "[Prediction]\nCapacity = -1\n",
	} {
		path := filepath.Join(dir, name)
		if name != "missing.toml" {
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}
