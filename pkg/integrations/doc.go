// Package integrations provides the shared HTTP client used by remote API
// clients.
//
// # Overview
//
// [Client] wraps net/http with the behaviour every remote API needs here:
//
//   - default headers (API tokens) applied to each request, with per-request
//     overrides and removals
//   - GET retries with exponential backoff via [httputil.Retry]
//   - response caching in any [cache.Cache] backend through [Client.Cached]
//   - request, response and error events reported to the
//     [observability.HTTPHooks] registry
//
// The contest API client lives in the [contest] subpackage.
//
// # Errors
//
// Failures map to [ErrNotFound], [ErrUnauthorized] or [ErrNetwork], all
// carrying a code from pkg/errors. Rate limiting surfaces as
// [errors.RateLimitedError].
//
// [contest]: github.com/paiv/icfpc2023/pkg/integrations/contest
package integrations
