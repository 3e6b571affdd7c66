package utils

const (
	// ConfigFileName is the name of the configuration file looked up in the
	// working directory and in the global configuration directory.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under $HOME.
	GlobalConfigDirectoryName = ".codepages"
	// IgnoreFileName lists input paths the build skips.
	IgnoreFileName = ".codepagesignore"

	// LoggerInitializationFailedMessageFormat reports a failed logger construction.
	LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"
	// ApplicationExecutionFailedMessage prefixes a fatal command error.
	ApplicationExecutionFailedMessage = "codepages failed"
)
