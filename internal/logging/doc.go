// Package logging builds the application's slog loggers.
//
// Two formats are supported: a human console format that prefixes messages
// with the originating component, and plain JSON for log files and machine
// consumption. Components obtain a tagged logger via NewComponentLogger.
package logging
