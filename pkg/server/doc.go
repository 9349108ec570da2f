// Package server exposes the readiness service over HTTP.
//
// NewRouter wires the assessment intake API, the admin retention endpoints,
// the health probes and the metrics endpoint onto a chi router. Server owns
// the http.Server lifecycle:
//
//	handler := server.NewRouter(cfg, server.Dependencies{
//	    Assessments: assessmentSvc,
//	    Retention:   trigger,
//	    Health:      checker,
//	    Metrics:     collector,
//	})
//	srv := server.NewServer(&cfg.Server, handler)
//	err := srv.Start(ctx) // returns after ctx is cancelled and shutdown completes
//
// Error responses are JSON objects with an "error" field. Submissions with
// missing fields also list them under "missingFields".
package server
