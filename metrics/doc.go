// Package metrics exports Prometheus metrics for hostfs operations.
//
// A Collector is registered as a hostfs.Observer. It counts every node and
// stream operation by name and result errno, records operation latency and
// tracks how many host descriptors are open.
package metrics
