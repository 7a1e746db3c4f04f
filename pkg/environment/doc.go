// Package environment propagates the running environment (development,
// staging, production) through context and structured logs.
//
// Parse normalizes raw strings like "prod" into typed constants. WithContext
// and FromContext move the value through a request's context, and
// LoggerExtractor surfaces it on every slog record.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	log := logger.New(
//	    logger.WithEnvironment(string(env), "api"),
//	    logger.WithContextExtractors(environment.LoggerExtractor()),
//	)
package environment
