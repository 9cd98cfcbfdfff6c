/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Hooks from several sources are combined with Chain, so a host can log every
operation and count it at the same time.
*/
package observability
