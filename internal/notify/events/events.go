// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"time"
)

const (
	RoutingLeadCreated   = "lead.created"
	RoutingPostPublished = "post.published"
)

type LeadCreated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type PostPublished struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type Publisher interface {
	PublishLeadCreated(ctx context.Context, e LeadCreated) error
	PublishPostPublished(ctx context.Context, e PostPublished) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishLeadCreated(context.Context, LeadCreated) error     { return nil }
func (Noop) PublishPostPublished(context.Context, PostPublished) error { return nil }
func (Noop) Close() error                                              { return nil }
