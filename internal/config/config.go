// Package config loads goldfish settings from a YAML file, GOLDFISH_
// environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/magefree/mage-goldfish-go/internal/ai/cardvalues"
	"github.com/magefree/mage-goldfish-go/internal/ai/combat"
	"github.com/magefree/mage-goldfish-go/internal/ai/evaluator"
	"github.com/magefree/mage-goldfish-go/internal/ai/sequencing"
	"github.com/magefree/mage-goldfish-go/internal/game"
	"github.com/magefree/mage-goldfish-go/internal/goldfish"
	"github.com/magefree/mage-goldfish-go/internal/repository"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full goldfish configuration.
type Config struct {
	Logging    LoggingConfig     `mapstructure:"logging"`
	AI         AIConfig          `mapstructure:"ai"`
	Goldfish   GoldfishConfig    `mapstructure:"goldfish"`
	CardValues []CardValueConfig `mapstructure:"card_values"`
	Database   repository.Config `mapstructure:"database"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AIConfig tunes the decision core.
type AIConfig struct {
	Debug                  bool `mapstructure:"debug"`
	SimulateCombat         bool `mapstructure:"simulate_combat"`
	LethalBonus            int  `mapstructure:"lethal_bonus"`
	DefaultDamage          int  `mapstructure:"default_damage"`
	MaxTreeNodes           int  `mapstructure:"max_tree_nodes"`
	DangerThreshold        int  `mapstructure:"danger_threshold"`
	SeriousDangerThreshold int  `mapstructure:"serious_danger_threshold"`
}

// GoldfishConfig describes the games to play.
type GoldfishConfig struct {
	Games         int      `mapstructure:"games"`
	Workers       int      `mapstructure:"workers"`
	MaxTurns      int      `mapstructure:"max_turns"`
	Seed          int64    `mapstructure:"seed"`
	OnThePlay     bool     `mapstructure:"on_the_play"`
	UseSimulation bool     `mapstructure:"use_simulation"`
	Deck          []string `mapstructure:"deck"`
	OpponentBoard []string `mapstructure:"opponent_board"`
	OpponentLife  int      `mapstructure:"opponent_life"`
}

// CardValueConfig overrides one entry of the card valuation table.
type CardValueConfig struct {
	Name          string `mapstructure:"name"`
	Value         int    `mapstructure:"value"`
	Damage        string `mapstructure:"damage"`
	CostReduction int    `mapstructure:"cost_reduction"`
}

// DefaultDeck is a mono-red burn list.
var DefaultDeck = []string{
	"20 Mountain",
	"4 Lightning Bolt",
	"4 Chain Lightning",
	"4 Lava Spike",
	"4 Rift Bolt",
	"4 Skewer the Critics",
	"4 Skullcrack",
	"4 Searing Spear",
	"4 Goblin Guide",
	"4 Monastery Swiftspear",
	"4 Eidolon of the Great Revel",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("ai.debug", false)
	v.SetDefault("ai.simulate_combat", true)
	v.SetDefault("ai.lethal_bonus", sequencing.DefaultLethalBonus)
	v.SetDefault("ai.default_damage", cardvalues.DefaultDamage)
	v.SetDefault("ai.max_tree_nodes", sequencing.DefaultMaxNodes)
	v.SetDefault("ai.danger_threshold", combat.DefaultDangerThreshold)
	v.SetDefault("ai.serious_danger_threshold", combat.DefaultSeriousDangerThreshold)

	v.SetDefault("goldfish.games", 100)
	v.SetDefault("goldfish.workers", 0)
	v.SetDefault("goldfish.max_turns", goldfish.DefaultMaxTurns)
	v.SetDefault("goldfish.seed", 1)
	v.SetDefault("goldfish.on_the_play", true)
	v.SetDefault("goldfish.use_simulation", true)
	v.SetDefault("goldfish.deck", DefaultDeck)
	v.SetDefault("goldfish.opponent_board", []string{})
	v.SetDefault("goldfish.opponent_life", goldfish.DefaultOpponentLife)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":       "logging.level",
	"log-format":      "logging.format",
	"debug":           "ai.debug",
	"simulate-combat": "ai.simulate_combat",
	"games":           "goldfish.games",
	"workers":         "goldfish.workers",
	"max-turns":       "goldfish.max_turns",
	"seed":            "goldfish.seed",
	"on-the-play":     "goldfish.on_the_play",
	"use-simulation":  "goldfish.use_simulation",
	"opponent-life":   "goldfish.opponent_life",
	"database-url":    "database.url",
}

// RegisterFlags adds the flags Load understands to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.Bool("debug", false, "log every AI decision")
	flags.Bool("simulate-combat", true, "look ahead through combat when scoring positions")
	flags.Int("games", 100, "number of games to play")
	flags.Int("workers", 0, "games played in parallel (0 = GOMAXPROCS)")
	flags.Int("max-turns", goldfish.DefaultMaxTurns, "turns before a game counts as lost")
	flags.Int64("seed", 1, "seed of the first game")
	flags.Bool("on-the-play", true, "take the first turn")
	flags.Bool("use-simulation", true, "let the evaluator hold spells until after combat")
	flags.Int("opponent-life", goldfish.DefaultOpponentLife, "opponent starting life")
	flags.String("database-url", "", "PostgreSQL URL to store results in (empty = don't store)")
}

// Load reads the configuration at path. A missing file leaves the
// defaults in place. Flags in fs that were set on the command line take
// priority over everything else; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GOLDFISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	var problems []string
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q", c.Logging.Level))
	}
	if c.Goldfish.Games <= 0 {
		problems = append(problems, "goldfish.games must be positive")
	}
	if c.Goldfish.Workers < 0 {
		problems = append(problems, "goldfish.workers must not be negative")
	}
	if c.Goldfish.MaxTurns <= 0 {
		problems = append(problems, "goldfish.max_turns must be positive")
	}
	if c.Goldfish.OpponentLife <= 0 {
		problems = append(problems, "goldfish.opponent_life must be positive")
	}
	if deck, err := goldfish.ParseDeck(c.Goldfish.Deck); err != nil {
		problems = append(problems, err.Error())
	} else if len(deck) == 0 {
		problems = append(problems, "goldfish.deck is empty")
	}
	for _, name := range c.Goldfish.OpponentBoard {
		if !game.KnownCard(name) {
			problems = append(problems, fmt.Sprintf("goldfish.opponent_board: unknown card %q", name))
		}
	}
	if c.Database.MaxConns < 0 {
		problems = append(problems, "database.max_conns must not be negative")
	}
	for _, cv := range c.CardValues {
		if cv.Name == "" {
			problems = append(problems, "card_values: entry without a name")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Deck returns the expanded decklist. It assumes Validate passed.
func (c *Config) Deck() []string {
	deck, _ := goldfish.ParseDeck(c.Goldfish.Deck)
	return deck
}

// ValueTable builds the card valuation table with the configured overrides.
func (c *Config) ValueTable() *cardvalues.Table {
	t := cardvalues.New(c.AI.DefaultDamage)
	for _, cv := range c.CardValues {
		t.Override(cv.Name, cardvalues.Entry{
			Value:         cv.Value,
			Damage:        cv.Damage,
			CostReduction: cv.CostReduction,
		})
	}
	return t
}

// RunnerOptions translates the configuration for the goldfish runner.
func (c *Config) RunnerOptions() goldfish.Options {
	return goldfish.Options{
		MaxTurns:      c.Goldfish.MaxTurns,
		OnThePlay:     c.Goldfish.OnThePlay,
		OpponentLife:  c.Goldfish.OpponentLife,
		OpponentBoard: c.Goldfish.OpponentBoard,
		UseSimulation: c.Goldfish.UseSimulation,
		Evaluator: evaluator.Options{
			Debug:          c.AI.Debug,
			SimulateCombat: c.AI.SimulateCombat,
		},
		Sequencing: sequencing.Options{
			LethalBonus: c.AI.LethalBonus,
			MaxNodes:    c.AI.MaxTreeNodes,
			Debug:       c.AI.Debug,
		},
		Combat: combat.Options{
			Block: combat.BlockOptions{
				DangerThreshold:        c.AI.DangerThreshold,
				SeriousDangerThreshold: c.AI.SeriousDangerThreshold,
			},
			Debug: c.AI.Debug,
		},
	}
}
