// Package handlers implements the read-only reporting API: account
// listing, aggregate statistics, server status, and the request log query.
//
// These handlers are pure glue. They read snapshots from the account pool
// and the request monitor, shape them into JSON, and never mutate either.
package handlers
