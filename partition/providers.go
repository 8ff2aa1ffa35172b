package partition

// A DurationProvider draws a process duration, in whole seconds, from
// [min, max].
type DurationProvider interface {
	Duration(min, max int) int
}

// A DeadlineNotifier invokes callback once, after the given number of
// seconds. The callback must not run before NotifyAfter returns.
type DeadlineNotifier interface {
	NotifyAfter(seconds int, callback func())
}
