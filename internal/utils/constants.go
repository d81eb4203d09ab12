package utils

// ConfigFileName is the name of the local application configuration file.
const ConfigFileName = ".promptpack.yaml"

// GlobalConfigDirectoryName is the directory under the user home holding the global configuration.
const GlobalConfigDirectoryName = ".promptpack"

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

// LoggerInitializationFailedMessageFormat reports a failure to construct the application logger.
const LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"

// ApplicationExecutionFailedMessage reports a fatal application error.
const ApplicationExecutionFailedMessage = "application execution failed"
