package adbfs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/jackfish212/adbfs/types"
)

// DefaultSkipDirs are the pseudo and volatile Android roots that are not
// worth traversing.
var DefaultSkipDirs = []string{"acct", "charger", "d", "dev", "proc", "sys"}

const (
	defaultADB       = "adb"
	defaultLsCommand = "busybox ls -lAenR"
	defaultTimeout   = 10 * time.Minute
)

// Config is built once at startup and passed to the Lister and transport.
type Config struct {
	Debug          bool
	SkipSystemDirs bool
	SkipDirs       []string
	AsRoot         bool // reserved
	Verbose        bool // reserved
	Rescan         bool
	AllowPartial   bool // accept listings that exited non-zero but printed records

	ADB       string
	Serial    string
	LsCommand string
	Timeout   time.Duration
	Snapshot  string
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		SkipSystemDirs: true,
		SkipDirs:       append([]string(nil), DefaultSkipDirs...),
		Rescan:         true,
		ADB:            defaultADB,
		LsCommand:      defaultLsCommand,
		Timeout:        defaultTimeout,
	}
}

// SkipSet returns the names skipped during listing, or nil when system
// directory skipping is off.
func (c Config) SkipSet() map[string]bool {
	if !c.SkipSystemDirs {
		return nil
	}
	set := make(map[string]bool, len(c.SkipDirs))
	for _, name := range c.SkipDirs {
		set[name] = true
	}
	return set
}

// LoadConfig reads the optional dotenv file and the ADBFS_* environment.
//
// The dotenv file is $ADBFS_ENV_FILE, else adbfs/adbfs.env under the user
// config directory. Variables already present in the environment win.
func LoadConfig() (Config, error) {
	envFile, explicit := os.Getenv("ADBFS_ENV_FILE"), true
	if envFile == "" {
		envFile, explicit = defaultEnvFile(), false
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: env file %s: %v", types.ErrInvocation, envFile, err)
			}
		} else {
			slog.Debug("adbfs: loaded env file", "path", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("ADBFS")
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("debug", def.Debug)
	v.SetDefault("skip_system_dir", def.SkipSystemDirs)
	v.SetDefault("skip_dirs", strings.Join(def.SkipDirs, ","))
	v.SetDefault("as_root", def.AsRoot)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("rescan", def.Rescan)
	v.SetDefault("allow_partial", def.AllowPartial)
	v.SetDefault("adb", def.ADB)
	v.SetDefault("serial", "")
	v.SetDefault("ls", def.LsCommand)
	v.SetDefault("timeout", def.Timeout.String())
	v.SetDefault("snapshot", "")

	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	var err error

	bools := []struct {
		key string
		dst *bool
	}{
		{"debug", &cfg.Debug},
		{"skip_system_dir", &cfg.SkipSystemDirs},
		{"as_root", &cfg.AsRoot},
		{"verbose", &cfg.Verbose},
		{"rescan", &cfg.Rescan},
		{"allow_partial", &cfg.AllowPartial},
	}
	for _, b := range bools {
		if *b.dst, err = parseBool(v.GetString(b.key)); err != nil {
			return Config{}, fmt.Errorf("%w: ADBFS_%s: %v", types.ErrInvocation, strings.ToUpper(b.key), err)
		}
	}

	for _, name := range strings.Split(v.GetString("skip_dirs"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.SkipDirs = append(cfg.SkipDirs, name)
		}
	}

	cfg.ADB = strings.TrimSpace(v.GetString("adb"))
	if cfg.ADB == "" {
		cfg.ADB = defaultADB
	}
	cfg.Serial = strings.TrimSpace(v.GetString("serial"))
	cfg.LsCommand = strings.TrimSpace(v.GetString("ls"))
	if cfg.LsCommand == "" {
		cfg.LsCommand = defaultLsCommand
	}
	cfg.Snapshot = strings.TrimSpace(v.GetString("snapshot"))

	cfg.Timeout, err = parseTimeout(v.GetString("timeout"))
	if err != nil || cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("%w: ADBFS_TIMEOUT: invalid duration %q", types.ErrInvocation, v.GetString("timeout"))
	}

	slog.Debug("adbfs: config loaded",
		"skip_system_dir", cfg.SkipSystemDirs,
		"skip_dirs", cfg.SkipDirs,
		"rescan", cfg.Rescan,
		"allow_partial", cfg.AllowPartial,
		"as_root", cfg.AsRoot,
		"verbose", cfg.Verbose,
		"adb", cfg.ADB,
		"timeout", cfg.Timeout,
	)
	return cfg, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	return cast.ToBoolE(s)
}

// parseTimeout accepts Go durations and bare integers as seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := cast.ToIntE(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return cast.ToDurationE(s)
}

func defaultEnvFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "adbfs", "adbfs.env")
}
