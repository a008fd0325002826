// Package mqtt publishes bot events (moderation cases, music state and
// stats heartbeats) to an MQTT broker.
package mqtt

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// TopicRoot prefixes every topic the bot publishes to.
const TopicRoot = "sentrybot"

// ModLogTopic is where moderation cases of a guild are published.
func ModLogTopic(guildID string) string {
	return fmt.Sprintf("%s/modlog/%s", TopicRoot, guildID)
}

// MusicTopic is where player state changes of a guild are published.
func MusicTopic(guildID string) string {
	return fmt.Sprintf("%s/music/%s", TopicRoot, guildID)
}

// StatsTopic carries the periodic stats heartbeat.
func StatsTopic() string {
	return TopicRoot + "/stats"
}

// Publisher is the part of the communicator other packages depend on.
type Publisher interface {
	Publish(topic string, payload interface{}) error
	IsConnected() bool
}

// MqttCommunicator handles the broker connection.
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string
	timeout  time.Duration
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global communicator.
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global communicator, nil when MQTT is disabled.
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator connects to tcp://host:port. The client keeps
// retrying in the background if the broker is unreachable.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: clientID,
		timeout:  5 * time.Second,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(fmt.Sprintf("%s_%s", clientID, uuid.New().String())).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success("Connected to the MQTT broker as "+clientID, "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(mc.timeout) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the broker connection.
func (mc *MqttCommunicator) Destroy() {
	if mc.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	}
}

// IsConnected reports whether the broker connection is up.
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Publish encodes payload as JSON and sends it to topic with QoS 0.
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	data, err := Encode(payload)
	if err != nil {
		return err
	}
	if !mc.IsConnected() {
		return fmt.Errorf("mqtt: not connected, dropping message for %s", topic)
	}

	token := mc.client.Publish(topic, 0, false, data)
	if !token.WaitTimeout(mc.timeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	return token.Error()
}

// Encode is the payload codec used by Publish.
func Encode(payload interface{}) ([]byte, error) {
	if raw, ok := payload.([]byte); ok {
		return raw, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}
