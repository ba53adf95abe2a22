package pipeline

import (
	"fmt"

	"github.com/spf13/viper"
)

// Profile configures one evaluation run.
type Profile struct {
	Coin       string  `mapstructure:"coin"`
	Days       int     `mapstructure:"days"`
	SplitRatio float64 `mapstructure:"split_ratio"`

	API struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSec     int    `mapstructure:"timeout_sec"`
		RequestsPerSec int    `mapstructure:"requests_per_sec"`
	} `mapstructure:"api"`
}

// DefaultProfile returns a profile evaluating a year of daily Bitcoin
// prices with an 80/20 split.
func DefaultProfile() Profile {
	p := Profile{
		Coin:       "bitcoin",
		Days:       365,
		SplitRatio: 0.8,
	}
	return p
}

// LoadProfile loads a run profile from the given config file, filling in
// defaults for anything unset.
func LoadProfile(profilePath string) (Profile, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultProfile()
	if err := v.Unmarshal(&cfg); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return cfg, nil
}
