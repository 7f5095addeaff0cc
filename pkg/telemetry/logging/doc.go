// Package logging builds the process logger.
//
// Loggers are plain *slog.Logger values. New picks a JSON or text handler,
// masks credentials when asked to, and adds context fields such as the
// trace id of the active span.
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	logger.Info("request built", "authorization", "Bearer sk-abc123") // authorization=Bear***
//
// # Redaction
//
// With RedactSecrets enabled, values whose key names a secret (token,
// api_key, authorization, x-api-key ...) are cut to a four character prefix,
// and string values anywhere are scanned for bearer tokens, sk- keys and
// JWTs.
package logging
