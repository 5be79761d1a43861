// Package notify relays board events to an MQTT broker so external
// observers (dashboards, the organizer's monitoring) can follow swap
// activity without polling the board.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/interviewday/board/core/board"
	corelogger "github.com/interviewday/board/core/logger"
	"github.com/interviewday/board/internal/eventbus"
)

// Config defines the connection parameters for the MQTT notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "schedule-board"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "board/events"
	}
}

// Validate checks mandatory fields when enabled.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("notify broker is required when enabled")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Notifier publishes board events as JSON, one topic per event type.
type Notifier struct {
	cli    pahoClient
	prefix string
	qos    byte
	bus    *eventbus.Bus[board.Event]
	log    corelogger.Logger
}

// New connects to the broker and returns a Notifier draining bus.
func New(cfg Config, bus *eventbus.Bus[board.Event], log corelogger.Logger) (*Notifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Notifier{cli: cli, prefix: cfg.TopicPrefix, qos: cfg.QoS, bus: bus, log: log}, nil
}

// Run drains the event bus until the context is cancelled or the bus
// closes, then disconnects.
func (n *Notifier) Run(ctx context.Context) {
	ch := n.bus.Subscribe()
	defer n.bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			n.cli.Disconnect(250)
			return
		case ev, ok := <-ch:
			if !ok {
				n.cli.Disconnect(250)
				return
			}
			n.publish(ev)
		}
	}
}

func (n *Notifier) publish(ev board.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Warnf("encode event: %v", err)
		return
	}
	topic := n.prefix + "/" + topicOf(ev)
	if token := n.cli.Publish(topic, n.qos, false, payload); token.Wait() && token.Error() != nil {
		n.log.Warnf("publish %s: %v", topic, token.Error())
	}
}

func topicOf(ev board.Event) string {
	switch ev.(type) {
	case board.DragStarted:
		return "drag_started"
	case board.DragEnded:
		return "drag_ended"
	case board.ProposalIssued:
		return "proposal_issued"
	case board.SwapResult:
		return "swap_result"
	case board.ScheduleReplaced:
		return "schedule_replaced"
	case board.ExportResult:
		return "export_result"
	default:
		return "unknown"
	}
}
