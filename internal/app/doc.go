// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Initialize logging and OpenTelemetry from the loaded configuration
//	2. Create the view and health services over the data directory
//	3. Register service errors with the RFC 7807 error handler
//	4. Set up the chi router, middleware chain and handlers
//	5. Start the HTTP server and log data sources that are not ready
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains active requests within
// Server.ShutdownTimeout, flushes telemetry and closes the log file.
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit.
package app
