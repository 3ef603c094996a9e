// Package logger provides structured logging helpers built on log/slog.
//
// New builds a logger for an environment:
//
//	log := logger.New(logger.WithDevelopment("myapp"))
//	log := logger.New(logger.WithProduction("myapp"), logger.WithOutput(os.Stderr))
//
// Attribute helpers keep keys consistent across components:
//
//	log.Info("listener bound",
//		logger.Component("server"),
//		logger.Addr(ln.Addr().String()),
//	)
//
//	log.Error("certificate load failed",
//		logger.Domain("example.com"),
//		logger.Error(err),
//	)
//
// Helpers return an empty slog.Attr for nil errors and empty identifiers,
// which slog ignores.
package logger
