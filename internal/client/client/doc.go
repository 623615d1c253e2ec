// Package client talks to the journey backend on behalf of the CLI.
//
// Client wraps the generated-by-hand rpc.JourneyClient with a session: the
// access token is attached to every call by an interceptor, and an expired
// access token is refreshed once with the stored refresh token before the
// call is retried. Sessions live in a diskv store under the CLI data
// directory so that separate invocations share a sign-in.
//
// Failures are returned as *rpc.Error, whose message is already localized,
// or as one of the sentinels ErrUnauthorized and ErrUnavailable.
package client
