// Package notify dispatches fire-and-forget user notifications (approval
// requests, resolutions) through pluggable delivery channels.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrChannelNotFound is returned when a delivery channel is not registered.
var ErrChannelNotFound = errors.New("notify: channel not found") //nolint:gochecknoglobals // sentinel error

// Channel delivers a message to a user over one transport.
type Channel interface {
	Send(ctx context.Context, userID uuid.UUID, message string) error
}

// Notifier fans a notification out to registered channels. Satisfies
// seal.Notifier.
type Notifier struct {
	channels ChannelRegistry
}

// ChannelRegistry maps channel names to Channel implementations.
type ChannelRegistry interface {
	Get(name string) (Channel, bool)
	Names() []string
}

// New creates a Notifier over the given channel registry.
func New(channels ChannelRegistry) *Notifier {
	return &Notifier{channels: channels}
}

// Notify sends the message through the first channel that succeeds. Falls
// back to logging when no channels are registered.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	names := n.channels.Names()
	if len(names) == 0 {
		log.Info().Stringer("user_id", userID).Str("message", message).Msg("notify: no channels registered")
		return nil
	}

	var lastErr error
	for _, name := range names {
		sendErr := n.NotifyVia(ctx, name, userID, message)
		if sendErr == nil {
			return nil
		}
		lastErr = sendErr
	}

	return fmt.Errorf("notify.Notifier.Notify: all channels failed: %w", lastErr)
}

// NotifyVia sends a notification through a specific named channel.
func (n *Notifier) NotifyVia(ctx context.Context, name string, userID uuid.UUID, message string) error {
	ch, ok := n.channels.Get(name)
	if !ok {
		return fmt.Errorf("notify.Notifier.NotifyVia: channel %q: %w", name, ErrChannelNotFound)
	}

	if err := ch.Send(ctx, userID, message); err != nil {
		return fmt.Errorf("notify.Notifier.NotifyVia: send: %w", err)
	}

	return nil
}
