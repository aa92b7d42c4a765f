// Package bus is the MQTT transport: sensor readings arrive on a single
// shared topic as JSON payloads of the form {"utensil": ..., "data": {...}}.
// Delivery is at most once and unordered across utensils.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Handler receives one decoded sensor reading. It is invoked on the MQTT
// client's delivery goroutine.
type Handler func(u game.Utensil, snap game.Snapshot)

// RawHandler sees every message before decoding, JSON or not. Used for the
// debugging message ring.
type RawHandler func(topic string, payload []byte)

type Options struct {
	Broker   string
	Port     int
	Topic    string
	Username string
	Password string
}

type Client struct {
	client mqtt.Client
	topic  string
}

// Connect dials the broker with a random client identity.
func Connect(opts Options) (*Client, error) {
	o := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", opts.Broker, opts.Port)).
		SetClientID(uuid.NewString()).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetKeepAlive(60 * time.Second).
		SetAutoReconnect(true)

	c := mqtt.NewClient(o)
	token := c.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("timed out connecting to %s:%d", opts.Broker, opts.Port)
	}
	if err := token.Error(); nil != err {
		return nil, fmt.Errorf("unable to connect to broker: %w", err)
	}

	log.Info("connected to broker", "broker", opts.Broker, "port", opts.Port)
	return &Client{client: c, topic: opts.Topic}, nil
}

type message struct {
	Utensil string        `json:"utensil"`
	Data    game.Snapshot `json:"data"`
}

// Subscribe starts delivering readings to the handler. Payloads that are not
// valid JSON or name an unknown utensil are passed to raw only.
func (c *Client) Subscribe(h Handler, raw RawHandler) error {
	token := c.client.Subscribe(c.topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		if raw != nil {
			raw(m.Topic(), m.Payload())
		}

		var msg message
		if err := json.Unmarshal(m.Payload(), &msg); nil != err {
			log.Debug("non-json payload ignored", "topic", m.Topic())
			return
		}
		utensil, err := game.ParseUtensil(msg.Utensil)
		if nil != err {
			log.Debug("unknown utensil ignored", "utensil", msg.Utensil)
			return
		}
		if msg.Data == nil {
			msg.Data = game.Snapshot{}
		}
		h(utensil, msg.Data)
	})
	token.Wait()
	if err := token.Error(); nil != err {
		return fmt.Errorf("unable to subscribe to %s: %w", c.topic, err)
	}
	log.Info("subscribed", "topic", c.topic)
	return nil
}

// Publish sends one sensor reading, used by the simulator.
func (c *Client) Publish(u game.Utensil, snap game.Snapshot) error {
	payload, err := json.Marshal(message{Utensil: string(u), Data: snap})
	if nil != err {
		return err
	}
	token := c.client.Publish(c.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

func (c *Client) Close() {
	c.client.Disconnect(250)
}
