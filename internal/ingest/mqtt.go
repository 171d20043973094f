// Package ingest moves sensor readings over MQTT.
package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const disconnectQuiesceMs = 250

type Options struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// Handler processes one message. Errors are logged; the message is not
// redelivered.
type Handler func(ctx context.Context, topic string, payload []byte) error

type Client struct {
	client mqtt.Client
	opts   Options
}

// Connect opens a client session with the broker.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Str("broker", opts.Broker).Msg("mqtt connection lost")
		})

	client := mqtt.NewClient(co)
	if err := wait(ctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", opts.Broker, err)
	}
	return &Client{client: client, opts: opts}, nil
}

// Subscribe connects and dispatches every message on opts.Topic to h.
func Subscribe(ctx context.Context, opts Options, h Handler) (*Client, error) {
	c, err := Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Subscribe(ctx, h); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Subscribe(ctx context.Context, h Handler) error {
	cb := func(_ mqtt.Client, msg mqtt.Message) {
		if err := h(ctx, msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}
	if err := wait(ctx, c.client.Subscribe(c.opts.Topic, c.opts.QoS, cb)); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", c.opts.Topic, err)
	}
	log.Info().Str("topic", c.opts.Topic).Msg("subscribed")
	return nil
}

func (c *Client) Publish(ctx context.Context, payload []byte) error {
	if err := wait(ctx, c.client.Publish(c.opts.Topic, c.opts.QoS, false, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", c.opts.Topic, err)
	}
	return nil
}

func (c *Client) Close() {
	c.client.Disconnect(disconnectQuiesceMs)
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
