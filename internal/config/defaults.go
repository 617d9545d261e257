package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default locations used by the reconciliation commands.
const (
	DefaultResolvedDir   = "resolved_cases"
	DefaultUnresolvedDir = "unresolved_cases"
	DefaultPatternLog    = "resolution_patterns.csv"
	DefaultUploadFolder  = "processed_data"
	DefaultDatabasePath  = "$HOME/.local/share/recon/recon.db"
	DefaultStatusFilter  = "Not Found"
)

// SetDefaults registers every default the CLI relies on.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_attempts", 1)
	v.SetDefault("llm.rate_limit", 0)
	v.SetDefault("llm.cache_ttl", time.Duration(0))

	v.SetDefault("resolution.resolved_dir", DefaultResolvedDir)
	v.SetDefault("resolution.unresolved_dir", DefaultUnresolvedDir)
	v.SetDefault("resolution.patterns", DefaultPatternLog)
	v.SetDefault("resolution.fail_safe", "resolved")
	v.SetDefault("resolution.min_confidence", 30)

	v.SetDefault("preprocess.status", DefaultStatusFilter)
	v.SetDefault("upload.folder", DefaultUploadFolder)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("history.enabled", true)
}

// BindEnv wires RECON_* environment variables onto dotted config keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
