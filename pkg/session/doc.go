/*
Package session implements the single-writer discipline around boards.

The Manager serializes every read-modify-write of a board behind a per-board
lock, optionally backed by a distributed lock so that several replicas sharing
one store still apply operations one at a time.
*/
package session
