// Package logger builds context-aware slog loggers. The factory wraps the
// chosen handler in a decorator that runs registered ContextExtractor
// callbacks on every record, so request-scoped values such as the resolved
// tenant id are attached automatically:
//
//	log := logger.New(
//		logger.WithProduction("grantfox"),
//		logger.WithContextExtractors(tenancy.LoggerExtractor()),
//	)
//
// Attribute helpers (Error, UserID, TenantID, ...) keep key naming
// consistent across packages.
package logger
