package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfileConfig holds named connection profiles persisted under the user's
// home directory.
type ProfileConfig struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

type Profile struct {
	// HubURL is the webhook service base URL, used by send.
	HubURL string `yaml:"hub_url"`
	// DatabaseURL is the control hub database, used by the management commands.
	DatabaseURL string `yaml:"database_url"`
}

func DefaultConfig() *ProfileConfig {
	return &ProfileConfig{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

func LoadConfig(cfgFile string) (*ProfileConfig, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".hubctl", "config.yaml")
	}

	cfg := DefaultConfig()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ProfileConfig) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".hubctl", "config.yaml")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

func (c *ProfileConfig) SaveProfile(name, hubURL, databaseURL string) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	c.Profiles[name] = &Profile{
		HubURL:      hubURL,
		DatabaseURL: databaseURL,
	}

	c.CurrentProfile = name
	return c.Save()
}

func (c *ProfileConfig) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

func (c *ProfileConfig) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}
