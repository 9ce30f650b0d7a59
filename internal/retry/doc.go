// Package retry retries connection establishment on transient failures.
//
// Only the initial connect is ever retried. Once a session is open, every
// failure ends the run: a reload is destructive and must not replay work
// behind the operator's back.
//
//	executor := retry.NewExecutor(
//	    retry.NewConnectionErrorClassifier(),
//	    retry.NewExponentialBackoff(cfg.ConnectRetries),
//	)
//	err := executor.Execute(ctx, connect)
package retry
