// Package jobs contains the server's periodic background work.
package jobs
