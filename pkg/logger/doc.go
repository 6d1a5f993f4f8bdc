// Package logger provides structured logging for rgscraper.
//
// It wraps zerolog behind a small Logger interface so components can accept
// a logger, chain fields onto it, and be handed a TestLogger in tests.
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.ForRun(logger.GetLogger(), logger.NewRunID(), "exampleuser")
//	log.WithField("page", 1).Info("Listing page fetched")
//
// Console output goes to stderr with coloured levels; setting logging.file
// additionally appends JSON lines to that file. logging.format=json switches
// the console writer to raw JSON as well.
package logger
