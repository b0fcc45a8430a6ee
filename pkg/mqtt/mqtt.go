// Package mqtt publishes domain events to an MQTT broker and answers dashboard
// requests (stats, status) over request/response topics.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	eventsRoot   = "animebot/events/"
	requestRoot  = "animebot/request/"
	responseRoot = "animebot/response/"
	// StatusTopic holds a retained presence flag; the broker flips it through the
	// last will when the bot drops off
	StatusTopic = "animebot/status"

	eventQoS = 1
)

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// Presence is the retained payload of StatusTopic
type Presence struct {
	Online   bool   `json:"online"`
	ClientID string `json:"clientId"`
	Since    string `json:"since,omitempty"`
}

// MqttCommunicator publishes bot events and serves request topics
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu       sync.Mutex
	handlers map[string]RequestHandler
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

var _ eventbus.Sink = (*MqttCommunicator)(nil)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// NewMqttCommunicator connects to the broker. Connection failures are logged and
// retried in the background.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: fmt.Sprintf("%s_%s", clientID, uuid.NewString()),
		handlers: make(map[string]RequestHandler),
	}

	will, _ := json.Marshal(Presence{Online: false, ClientID: mc.clientID})
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(mc.clientID).
		SetUsername(username).
		SetPassword(password).
		SetBinaryWill(StatusTopic, will, eventQoS, true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(mc.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}
	return mc
}

// onConnect announces presence and restores the request subscriptions, which a
// clean session drops on every reconnect
func (mc *MqttCommunicator) onConnect(c mqtt.Client) {
	logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", mc.clientID), "MQTT")

	online, _ := json.Marshal(Presence{Online: true, ClientID: mc.clientID, Since: time.Now().UTC().Format(time.RFC3339)})
	c.Publish(StatusTopic, eventQoS, true, online)

	mc.mu.Lock()
	topics := make(map[string]RequestHandler, len(mc.handlers))
	for t, h := range mc.handlers {
		topics[t] = h
	}
	mc.mu.Unlock()

	for topic, h := range topics {
		mc.subscribe(topic, h)
	}
	if len(topics) > 0 {
		logger.Info(fmt.Sprintf("Suscripciones MQTT restauradas: %d", len(topics)), "MQTT")
	}
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		offline, _ := json.Marshal(Presence{Online: false, ClientID: mc.clientID})
		mc.client.Publish(StatusTopic, eventQoS, true, offline).WaitTimeout(time.Second)
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	return mc.publish(topic, 0, payload)
}

func (mc *MqttCommunicator) publish(topic string, qos byte, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, qos, false, jsonData)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Send publishes a domain event under animebot/events/<type>
func (mc *MqttCommunicator) Send(e eventbus.Event) error {
	if !mc.IsConnected() {
		return fmt.Errorf("mqtt broker not connected")
	}
	return mc.publish(EventTopic(e.Type), eventQoS, e)
}

// EventTopic maps an event type such as vip.activated to its topic
func EventTopic(eventType string) string {
	return eventsRoot + strings.ReplaceAll(eventType, ".", "/")
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic. It survives reconnects.
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	topic := requestRoot + requestTopic
	mc.mu.Lock()
	mc.handlers[topic] = callback
	mc.mu.Unlock()

	if mc.IsConnected() {
		mc.subscribe(topic, callback)
	}
}

func (mc *MqttCommunicator) subscribe(topic string, callback RequestHandler) {
	token := mc.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		responseTopic, response, err := answer(msg.Topic(), msg.Payload(), callback)
		if err != nil {
			logger.Error(fmt.Sprintf("Solicitud MQTT inválida en %s: %v", msg.Topic(), err), "MQTT")
			return
		}
		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
		}
	})

	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error suscribiendo a %s: %v", topic, token.Error()), "MQTT")
	}
}

// answer runs callback for one raw request and builds the response
func answer(receivedTopic string, raw []byte, callback RequestHandler) (string, MqttResponse, error) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return "", MqttResponse{}, err
	}

	actualTopic := strings.TrimPrefix(receivedTopic, requestRoot)
	responseTopic := fmt.Sprintf("%s%s/%s", responseRoot, actualTopic, request.CorrelationID)

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = actualTopic

	data, err := callback(payloadMap)
	if err != nil {
		return responseTopic, MqttResponse{CorrelationID: request.CorrelationID, Error: err.Error()}, nil
	}
	return responseTopic, MqttResponse{CorrelationID: request.CorrelationID, Data: data}, nil
}
