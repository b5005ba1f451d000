package commands

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
	"github.com/forgeworks-io/atlas/pkg/cloudclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	displayTimeFormat = "2006-01-02 15:04"
)

// CreateClient builds an Atlassian client from the resolved configuration
// (flags, environment, config file).
func CreateClient() (atlas.Client, error) {
	config := &atlas.Config{
		BitbucketEndpoint:   viper.GetString("bitbucket-api"),
		ServiceDeskEndpoint: viper.GetString("jira-api"),
		Username:            viper.GetString("username"),
		Token:               viper.GetString("token"),
		AccessToken:         viper.GetString("access-token"),
		Debug:               viper.GetBool("debug"),
	}

	if viper.GetBool("verbose") || config.Debug {
		config.Logger = NewLogger(config.Debug)
	}

	return cloudclient.New(config)
}

// NewLogger creates the console logger used by the CLI.
func NewLogger(debug bool) atlas.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zerologAdapter{logger: logger}
}

// zerologAdapter adapts zerolog to atlas.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (l *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	return encoder.Encode(value)
}

func printYAML(value interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	defer func() {
		_ = encoder.Close()
	}()

	return encoder.Encode(value)
}

// formatTime renders a parsed timestamp for table output; a parse failure
// degrades to a placeholder rather than aborting the listing.
func formatTime(value time.Time, err error) string {
	if err != nil {
		return NotAvailable
	}

	return value.Local().Format(displayTimeFormat)
}
