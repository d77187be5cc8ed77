// Package retry implements the retry decision engine shared by all service
// clients: eligibility rules over status codes and error kinds, delay
// computation (fixed, linear, exponential with a max-delay cap), optional
// jitter, and a context-cancellable execution loop.
//
// Basic usage:
//
//	handler, err := retry.NewHandler(retry.DefaultConfig(), log)
//	if err != nil {
//		return err
//	}
//	err = handler.Do(ctx, "list jokes", func() error {
//		_, err := client.Get(ctx, "/jokes/goodJokes", nil)
//		return err
//	})
//
// A Retry-After hint on a classified error overrides the computed delay, so
// rate-limited calls wait exactly as long as the server asked for. When a
// call fails for good, the last classified error is returned unchanged.
package retry
