package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultDataFile = "bot_data.json"

	// dotenvSwitch set to "0" skips .env loading
	dotenvSwitch = "PLAYTIME_DOTENV"
)

// dotenvFiles are tried in order; earlier files win since godotenv never
// overrides a variable that is already set
var dotenvFiles = []string{".env.local", ".env"}

type envVars struct {
	Token         string `env:"BOT_TOKEN,required,notEmpty"`
	UserID        string `env:"USER_ID,required,notEmpty"`
	GameName      string `env:"GAME_NAME,required,notEmpty"`
	GuildID       string `env:"GUILD_ID"`
	DataFile      string `env:"DATA_FILE" envDefault:"bot_data.json"`
	DesktopNotify bool   `env:"DESKTOP_NOTIFY" envDefault:"false"`
}

// AppConfig holds application configuration
type AppConfig struct {
	logger        *zap.Logger
	token         string
	targetUserID  string
	targetGame    string
	guildID       string
	dataFile      string
	desktopNotify bool
}

// NewAppConfig creates a new application configuration instance from the
// environment, after loading any .env files in the working directory
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	if err := loadDotEnv(logger); err != nil {
		return nil, err
	}

	var vars envVars
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := strconv.ParseUint(vars.UserID, 10, 64); err != nil {
		return nil, fmt.Errorf("USER_ID must be a numeric user ID, got %q", vars.UserID)
	}
	if vars.GuildID != "" {
		if _, err := strconv.ParseUint(vars.GuildID, 10, 64); err != nil {
			return nil, fmt.Errorf("GUILD_ID must be a numeric guild ID, got %q", vars.GuildID)
		}
	}

	dataFile := expandPath(vars.DataFile)
	if dataFile == "" {
		dataFile = defaultDataFile
	}

	logger.Info("Configuration loaded",
		zap.String("targetUser", vars.UserID),
		zap.String("targetGame", vars.GameName),
		zap.String("guild", vars.GuildID),
		zap.String("dataFile", dataFile),
		zap.Bool("desktopNotify", vars.DesktopNotify))

	return &AppConfig{
		logger:        logger,
		token:         vars.Token,
		targetUserID:  vars.UserID,
		targetGame:    vars.GameName,
		guildID:       vars.GuildID,
		dataFile:      dataFile,
		desktopNotify: vars.DesktopNotify,
	}, nil
}

func loadDotEnv(logger *zap.Logger) error {
	if os.Getenv(dotenvSwitch) == "0" {
		return nil
	}

	for _, p := range dotenvFiles {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		logger.Debug("Loaded environment file", zap.String("path", p))
	}
	return nil
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// GetToken returns the bot credential
func (c *AppConfig) GetToken() string {
	return c.token
}

// GetTargetUserID returns the tracked user's ID
func (c *AppConfig) GetTargetUserID() string {
	return c.targetUserID
}

// GetTargetGame returns the exact name of the tracked game
func (c *AppConfig) GetTargetGame() string {
	return c.targetGame
}

// GetGuildID returns the guild used for command registration, or ""
func (c *AppConfig) GetGuildID() string {
	return c.guildID
}

// GetDataFile returns the path of the state file
func (c *AppConfig) GetDataFile() string {
	return c.dataFile
}

// GetDesktopNotify reports whether desktop notifications are enabled
func (c *AppConfig) GetDesktopNotify() bool {
	return c.desktopNotify
}
