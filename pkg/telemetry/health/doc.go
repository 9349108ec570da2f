// Package health implements the liveness and readiness probes.
//
// Liveness always succeeds while the process runs. Readiness runs every
// registered check, typically a ping of the assessment store:
//
//	checker := health.New(cfg.Telemetry.Health.Timeout, version)
//	checker.RegisterCheck("storage", health.PingCheck(store))
//	router.Get("/ready", checker.ReadinessHandler())
package health
