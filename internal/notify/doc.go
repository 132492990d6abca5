// Package notify implements the status-transition notification pipeline:
// building gateway payloads for completed tasks and due reminders,
// delivering them over HTTP, dispatching deliveries asynchronously from
// the write path through a bounded queue and worker pool, and scanning
// for reminders that have crossed their due instant. Delivery failures
// are terminal at the dispatcher boundary and never reach the write
// path that triggered them.
package notify
