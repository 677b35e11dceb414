// Package scroll turns a stream of scroll-offset samples into discrete
// "settled" events. A fast continuous scroll produces no intermediate events;
// only the sample taken right after motion stops is reported.
package scroll
