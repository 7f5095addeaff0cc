// Package health serves liveness and readiness probes for the watch command.
//
// Checks are plain functions of a context. The watch command registers the
// provider catalog and, when managed login is configured, the credential
// store. Endpoints are mounted next to the metrics endpoint:
//
//	GET /healthz  200 while the process runs
//	GET /readyz   200 when every check passes, 503 otherwise
//	GET /version  build information
//
// Checks run concurrently, each bounded by the checker's timeout.
package health
