// Package requestid generates and propagates per-request correlation IDs.
//
// IDs travel in the X-Request-ID header. A valid client-supplied ID is
// reused so traces can span services; anything else is replaced with a
// generated UUID. The ID is carried in the request context and can be
// attached to every log line via LoggerExtractor:
//
//	log := logger.New(
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
package requestid
