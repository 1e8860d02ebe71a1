package meta

import (
	"fmt"
	"strings"
	"time"

	"chessball/game"

	"github.com/spf13/viper"
)

type Config struct {
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	Workers      int           `mapstructure:"workers"`
	NodeBudget   int           `mapstructure:"node_budget"`
	MaxDepth     int           `mapstructure:"max_depth"`
	Deadline     time.Duration `mapstructure:"deadline"`
	Symmetry     bool          `mapstructure:"symmetry"`
	Weights      game.Weights  `mapstructure:"weights"`
	MaxPlies     int           `mapstructure:"max_plies"`
	MinimaxDepth int           `mapstructure:"minimax_depth"`
	Seed         uint64        `mapstructure:"seed"`
	StartFile    string        `mapstructure:"start_file"` // optional board text, see game.ParsePosition
	OutputDir    string        `mapstructure:"output_dir"`
}

// Load reads the configuration file at path, if any, then lets CHESSBALL_*
// environment variables override it (CHESSBALL_NODE_BUDGET,
// CHESSBALL_WEIGHTS_MOBILITY, ...). Unset keys keep the defaults of this
// package.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("width", game.StandardWidth)
	v.SetDefault("height", game.StandardHeight)
	v.SetDefault("workers", GO_ROUTINES)
	v.SetDefault("node_budget", NODE_BUDGET)
	v.SetDefault("max_depth", MAX_DEPTH)
	v.SetDefault("deadline", DEADLINE)
	v.SetDefault("symmetry", true)
	v.SetDefault("weights.row_distance", DEFAULT_WEIGHTS.RowDistance)
	v.SetDefault("weights.column_distance", DEFAULT_WEIGHTS.ColumnDistance)
	v.SetDefault("weights.opponent_pushers", DEFAULT_WEIGHTS.OpponentPushers)
	v.SetDefault("weights.player_pushers", DEFAULT_WEIGHTS.PlayerPushers)
	v.SetDefault("weights.opponent_threat", DEFAULT_WEIGHTS.OpponentThreat)
	v.SetDefault("weights.mobility", DEFAULT_WEIGHTS.Mobility)
	v.SetDefault("weights.control", DEFAULT_WEIGHTS.Control)
	v.SetDefault("weights.vulnerable", DEFAULT_WEIGHTS.Vulnerable)
	v.SetDefault("weights.push_distance", DEFAULT_WEIGHTS.PushDistance)
	v.SetDefault("weights.blockers", DEFAULT_WEIGHTS.Blockers)
	v.SetDefault("max_plies", MAX_PLIES)
	v.SetDefault("minimax_depth", MINIMAX_DEPTH)
	v.SetDefault("seed", 1)
	v.SetDefault("start_file", "")
	v.SetDefault("output_dir", "experiments")

	v.SetEnvPrefix("CHESSBALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := cfg.Rules(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Rules() (game.Rules, error) {
	return game.NewRules(c.Width, c.Height)
}
