// Package httputil provides HTTP helpers for the contest API client.
//
// [Retry] runs a request with multiplicative backoff for transient failures.
//
// # Retry
//
// Wrap transient failures (non-200 responses, timeouts) in [RetryableError]
// and run the request under [Retry]. [DefaultBackoff] makes 3 attempts,
// waiting 1s and then 1.5s between them:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
