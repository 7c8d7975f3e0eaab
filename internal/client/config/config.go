// Package config handles configuration for the publisher CLI.
package config

import (
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/flagx"
	"github.com/dmitrijs2005/vidpress/internal/timex"
)

// Config holds runtime settings for the vidpress publisher CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the vidpress HTTP API.
//   - RequestTimeout: per-request timeout for API calls. The upload PUT is
//     not bounded by it, large files take as long as they take.
//   - File / Title / Description / Tags: the video to publish.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	File               string
	Title              string
	Description        string
	Tags               []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

type jsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}

// parseFlags populates selected CLI Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL (e.g., "http://127.0.0.1:8080")
//	-f string   video file to publish
//	-t string   title
//	-d string   description
//	-g string   comma-separated tags
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t", "-d", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "API base URL")
	fs.StringVar(&config.File, "f", config.File, "video file to publish")
	fs.StringVar(&config.Title, "t", config.Title, "title")
	fs.StringVar(&config.Description, "d", config.Description, "description")

	tags := fs.String("g", "", "comma-separated tags")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *tags != "" {
		config.Tags = strings.Split(*tags, ",")
	}
}
