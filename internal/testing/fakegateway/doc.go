// Package fakegateway is an in-memory stand-in for the remote data gateway.
//
// It satisfies every state service's Store interface and simulates the
// remote procedures closely enough for tests: usage increments, like
// toggles that report the transition, and achievement/title grants driven
// by recorded user actions.
//
// Failures and interleavings are injected per method name:
//
//	gw := fakegateway.New()
//	gw.Fail("TogglePostLike", errors.New("network down"))
//	gw.Intercept("IncrementUsage", func() { <-release })
package fakegateway
