// Package pg bootstraps the PostgreSQL layer: a pgx/v5 connection pool with
// startup retries, goose schema migrations, a health probe, and SQLSTATE
// classification helpers used by the storage packages.
//
// The migrations applied by [Migrate] are where the row-level security
// policies live, so the service entrypoint is expected to call Connect and
// Migrate before accepting requests:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
// The error helpers ([IsDuplicateKeyError], [IsInsufficientPrivilegeError],
// ...) unwrap *pgconn.PgError so business code can classify failures without
// importing pgconn directly.
package pg
