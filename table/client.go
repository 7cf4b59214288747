package table

import (
	"crypto/tls"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds the broker connection settings for the MQTT-backed table.
type Config struct {
	Broker          string `yaml:"broker"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	UseTLS          bool   `yaml:"use_tls"`
	InsecureSkipTLS bool   `yaml:"insecure_skip_tls"`
	Prefix          string `yaml:"prefix"` // topic prefix, one table per prefix
}

// DefaultConfig points at a local broker with the reference table name.
func DefaultConfig() Config {
	return Config{
		Broker: "127.0.0.1",
		Port:   1883,
		Prefix: "field/Pose",
	}
}

// Client is a Store backed by an MQTT broker. Every key is a retained topic
// under the configured prefix with a plain-text numeric or boolean payload.
// Reads are served from a local cache fed by the subscription, so getters
// never block; writes are staged and pushed on Flush.
type Client struct {
	cfg    Config
	client mqtt.Client

	mu      sync.RWMutex
	numbers map[string]float64
	bools   map[string]bool

	pendingNumbers map[string]float64
	pendingBools   map[string]bool
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:            cfg,
		numbers:        make(map[string]float64),
		bools:          make(map[string]bool),
		pendingNumbers: make(map[string]float64),
		pendingBools:   make(map[string]bool),
	}
}

// Connect dials the broker and subscribes to the table prefix.
func (c *Client) Connect() error {
	opts := mqtt.NewClientOptions()

	protocol := "tcp"
	if c.cfg.UseTLS {
		protocol = "tls"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", protocol, c.cfg.Broker, c.cfg.Port)
	opts.AddBroker(brokerURL)

	clientID := fmt.Sprintf("fieldviz-table-%d", time.Now().Unix())
	opts.SetClientID(clientID)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	if c.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: c.cfg.InsecureSkipTLS})
	}

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Printf("[TABLE] Connection lost: %v (will auto-reconnect)", err)
	}

	c.client = mqtt.NewClient(opts)

	log.Printf("[TABLE] Connecting to %s as %s...", brokerURL, clientID)

	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("table connect timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("table connect failed: %w", token.Error())
	}
	return nil
}

func (c *Client) onConnect(client mqtt.Client) {
	topic := c.cfg.Prefix + "/#"
	token := client.Subscribe(topic, 0, c.onMessage)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("[TABLE] Subscribe timeout for %s", topic)
		return
	}
	if token.Error() != nil {
		log.Printf("[TABLE] Subscribe error: %v", token.Error())
		return
	}
	log.Printf("[TABLE] Subscribed to %s", topic)
}

func (c *Client) onMessage(_ mqtt.Client, msg mqtt.Message) {
	key := strings.TrimPrefix(msg.Topic(), c.cfg.Prefix+"/")
	if key == msg.Topic() || key == "" {
		return
	}
	c.ingest(key, string(msg.Payload()))
}

// ingest parses a plain-text payload into the cache. Unparseable payloads
// are dropped; the reader's default covers the key until a good value
// arrives.
func (c *Client) ingest(key, payload string) {
	payload = strings.TrimSpace(payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch strings.ToLower(payload) {
	case "true":
		c.bools[key] = true
		return
	case "false":
		c.bools[key] = false
		return
	}

	if v, err := strconv.ParseFloat(payload, 64); err == nil {
		c.numbers[key] = v
	}
}

func (c *Client) GetNumber(key string, def float64) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.numbers[key]; ok {
		return v
	}
	return def
}

func (c *Client) Lookup(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.numbers[key]
	return v, ok
}

func (c *Client) GetBoolean(key string, def bool) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.bools[key]; ok {
		return v
	}
	return def
}

func (c *Client) PutNumber(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingNumbers[key] = value
}

func (c *Client) PutBoolean(key string, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingBools[key] = value
}

// Flush publishes staged writes as retained QoS 0 messages. Best effort:
// the next tick republishes everything, so there are no retries here.
func (c *Client) Flush() error {
	if c.client == nil || !c.client.IsConnected() {
		return fmt.Errorf("table not connected")
	}

	c.mu.Lock()
	staged := make(map[string]string, len(c.pendingNumbers)+len(c.pendingBools))
	for k, v := range c.pendingNumbers {
		staged[k] = strconv.FormatFloat(v, 'g', -1, 64)
		c.numbers[k] = v
		delete(c.pendingNumbers, k)
	}
	for k, v := range c.pendingBools {
		staged[k] = strconv.FormatBool(v)
		c.bools[k] = v
		delete(c.pendingBools, k)
	}
	c.mu.Unlock()

	for k, payload := range staged {
		c.client.Publish(c.cfg.Prefix+"/"+k, 0, true, payload)
	}
	return nil
}

// IsConnected reports broker connectivity.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}
