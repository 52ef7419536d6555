// Package redis wraps the go-redis client with retrying connection setup,
// env-driven configuration and a readiness probe. The membership package
// uses it as a shared cache backend so tenant resolution stays fast across
// application instances.
package redis
