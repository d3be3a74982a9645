package config

const (
	defaultWorkDir        = "."
	defaultClientBinary   = "./build/bin/evosim"
	defaultDaemonBinary   = "./build/bin/evosimd"
	defaultConfigFile     = "example_config.yaml"
	defaultSavesDir       = "saves"
	defaultLogFile        = "evosim.log"
	defaultSummaryFile    = "results.json"
	defaultStateDir       = "~/.local/share/evorun"
	defaultObserveSeconds = 5
	defaultBuildHint      = "./scripts/build.sh"
	defaultSnapshotSuffix = ".evo"
	defaultSnapshotLimit  = 3
	defaultLogLines       = 5
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:      defaultWorkDir,
			ClientBinary: defaultClientBinary,
			DaemonBinary: defaultDaemonBinary,
			ConfigFile:   defaultConfigFile,
			SavesDir:     defaultSavesDir,
			LogFile:      defaultLogFile,
			SummaryFile:  defaultSummaryFile,
			StateDir:     defaultStateDir,
		},
		Lifecycle: Lifecycle{
			ObserveSeconds: defaultObserveSeconds,
			BuildHint:      defaultBuildHint,
		},
		Inspect: Inspect{
			SnapshotSuffix: defaultSnapshotSuffix,
			SnapshotLimit:  defaultSnapshotLimit,
			LogLines:       defaultLogLines,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
