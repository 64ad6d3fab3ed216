package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Region describes where deliveries are accepted.
type Region struct {
	Country    string   `mapstructure:"country"`
	State      string   `mapstructure:"state"`
	Localities []string `mapstructure:"localities"`
}

func DefaultRegion() Region {
	return Region{
		Country: "IN",
		State:   "Assam",
		Localities: []string{
			"dibrugarh", "guwahati", "tezpur", "silchar", "nagaon", "jorhat", "sivasagar",
			"barpeta", "golaghat", "teok", "rangiya", "pathshala", "kokrajhar", "amingaon",
		},
	}
}

// LoadRegion reads a region YAML file. An empty path returns DefaultRegion;
// keys missing from the file keep their default values.
func LoadRegion(path string) (Region, error) {
	def := DefaultRegion()
	if path == "" {
		return def, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("country", def.Country)
	v.SetDefault("state", def.State)
	v.SetDefault("localities", def.Localities)

	if err := v.ReadInConfig(); err != nil {
		return Region{}, fmt.Errorf("read region file %s: %w", path, err)
	}

	var r Region
	if err := v.Unmarshal(&r); err != nil {
		return Region{}, fmt.Errorf("decode region file %s: %w", path, err)
	}
	for i, l := range r.Localities {
		r.Localities[i] = strings.ToLower(strings.TrimSpace(l))
	}
	if r.State == "" && len(r.Localities) == 0 {
		return Region{}, fmt.Errorf("region file %s names no state or localities", path)
	}
	return r, nil
}
