package util

import (
	"context"
)

type key string

const (
	eventIDKey  = key("event-id")
	clientIDKey = key("client-id")
)

// WithClientID returns a context with a client acronym attached.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// WithEventID returns a context with an event id attached.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey, id)
}

// GetClientID returns the client acronym from context, empty if not present.
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// GetEventID returns the event id from context, empty if not present.
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}
