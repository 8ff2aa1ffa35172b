// Package deadline delivers "run this after N seconds" callbacks, either in
// the virtual time of a timing engine or in wall-clock time.
//
// Neither notifier supports cancellation. A callback that fires after the
// thing it refers to is gone is expected to be a no-op for the receiver.
package deadline
