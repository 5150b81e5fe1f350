package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bfellner/swu-tracker-go/internal/web"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Swudb   Swudb   `yaml:"swudb"`
	Swudeck Swudeck `yaml:"swudeck"`
	Ledger  Ledger  `yaml:"ledger"`
	Sorter  Sorter  `yaml:"sorter"`
}

type Logging struct {
	Level string `yaml:"level"`
}

func (l Logging) LevelOrDefault() string {
	level := strings.TrimSpace(l.Level)
	if level == "" {
		level = "INFO"
	}

	return strings.ToLower(level)
}

type Storage struct {
	Location string `yaml:"location"`
}

func (s Storage) LocationOrDefault() string {
	if strings.TrimSpace(s.Location) == "" {
		return "card_data"
	}

	return s.Location
}

// Swudb configures the remote card database, one read endpoint per set.
type Swudb struct {
	BaseURL string     `yaml:"baseUrl"`
	Client  web.Config `yaml:"client"`
}

func (s Swudb) BuildSetURL(setCode string) string {
	base := strings.TrimSuffix(s.BaseURL, "/")

	return fmt.Sprintf("%s/cards/%s", base, strings.ToLower(setCode))
}

// Swudeck configures the remote deck service.
type Swudeck struct {
	BaseURL string     `yaml:"baseUrl"`
	Client  web.Config `yaml:"client"`
}

func (s Swudeck) BuildDeckURL(deckID string) string {
	base := strings.TrimSuffix(s.BaseURL, "/")

	return fmt.Sprintf("%s/api/deck/%s", base, deckID)
}

type Ledger struct {
	Path       string `yaml:"path"`
	ExportFile string `yaml:"exportFile"`
}

func (l Ledger) PathOrDefault() string {
	if strings.TrimSpace(l.Path) == "" {
		return "card_data/cards_in_use.db"
	}

	return l.Path
}

func (l Ledger) ExportFileOrDefault() string {
	if strings.TrimSpace(l.ExportFile) == "" {
		return "swudb_lists/cards_in_use.md"
	}

	return l.ExportFile
}

type Sorter struct {
	OutputDir string `yaml:"outputDir"`
}

func (s Sorter) OutputDirOrDefault() string {
	if strings.TrimSpace(s.OutputDir) == "" {
		return "swudb_lists"
	}

	return s.OutputDir
}

func Load(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	return buildConfig(path)
}

func buildConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("config unmarshal failed with: %w", err)
	}

	return config, nil
}
