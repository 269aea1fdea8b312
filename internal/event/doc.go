// Package event provides the publish/subscribe channel between the
// expansion engine and its collaborators. The engine publishes expansion,
// status and error events; statistics, logging and any future UI surface
// subscribe without the engine knowing about them.
//
// Delivery is asynchronous on a small worker pool so the keyboard hook
// path never blocks on a slow subscriber.
package event
