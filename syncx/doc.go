// Package syncx provides small synchronization helpers: settle-once futures used as task handles, and closures that run under a lock.
package syncx
