package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/pmove/predict"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Settings contains everything a host running the movement code can configure.
type Settings struct {
	// Movement holds the solver tunables. Server and clients must agree on them.
	Movement   pmove.Config
	Prediction predict.Config
	Server     struct {
		// TickMillis is the duration of one server tick.
		TickMillis uint32
		// Workers is the number of goroutines ticking actors, zero meaning one per CPU.
		Workers int
		// CommandCapacity is how many commands each actor may have queued.
		CommandCapacity int
	}
	Log struct {
		Level string
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{
		Movement:   pmove.DefaultConfig(),
		Prediction: predict.DefaultConfig(),
	}
	settings.Server.TickMillis = 16
	settings.Server.CommandCapacity = 64
	settings.Log.Level = logrus.InfoLevel.String()
	return settings
}

// Validate reports the first setting that cannot be used.
func (s Settings) Validate() error {
	if err := s.Movement.Validate(); err != nil {
		return err
	}
	if err := s.Prediction.Validate(); err != nil {
		return err
	}
	if s.Server.TickMillis == 0 || s.Server.TickMillis > 255 {
		return fmt.Errorf("server tick must be between 1 and 255 ms, got %d", s.Server.TickMillis)
	}
	if s.Server.CommandCapacity <= 0 {
		return fmt.Errorf("command capacity must be positive, got %d", s.Server.CommandCapacity)
	}
	if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level, falling back to info.
func (s Settings) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Settings missing from the file keep their default value.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}
