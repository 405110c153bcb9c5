// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithRedact("password", "token"))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Messages below the configured level are
// discarded before any attribute is evaluated.
//
// # Redaction
//
// Configuration strings routinely carry credentials. [WithRedact] installs
// an attribute filter that replaces the value of every attribute whose key
// contains one of the given words (case-insensitive) with [Redacted]. The
// default logger redacts [DefaultRedactKeys].
//
// # Default Logger
//
// Package-level functions such as [Info] and [DebugContext] write through
// a process-wide default logger, reconfigured with [Config].
package log
