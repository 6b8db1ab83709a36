// Package ingest receives roster batches from the import collaborator
// over MQTT. Each message carries the full record collection as a JSON
// array; the engine recomputes from scratch on every batch.
package ingest

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/infra/logger"
)

// Config defines the connection parameters for the roster feed.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "deptsched/roster"
	}
	if c.ClientID == "" {
		c.ClientID = "deptsched"
	}
}

// Handler is called with the decoded batch. Row-level validation is the
// index's job; the handler receives whatever the feed sent.
type Handler func(records []model.RawCommitment)

// Subscriber listens on the roster topic and forwards batches.
type Subscriber struct {
	cli     paho.Client
	cfg     Config
	handler Handler
	log     logger.Logger
}

// NewSubscriber connects to the broker and subscribes to the roster
// topic. The client id is suffixed so parallel instances never clash.
func NewSubscriber(cfg Config, h Handler) (*Subscriber, error) {
	if h == nil {
		return nil, fmt.Errorf("ingest: handler is required")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	s := &Subscriber{cfg: cfg, handler: h, log: logger.New("ingest")}
	s.cli = paho.NewClient(opts)
	tok := s.cli.Connect()
	if !tok.WaitTimeout(10*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("ingest connect: %w", tok.Error())
	}
	sub := s.cli.Subscribe(cfg.Topic, cfg.QoS, s.onMessage)
	if !sub.WaitTimeout(10*time.Second) || sub.Error() != nil {
		s.cli.Disconnect(0)
		return nil, fmt.Errorf("ingest subscribe: %w", sub.Error())
	}
	s.log.Infof("subscribed to %s", cfg.Topic)
	return s, nil
}

func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	var records []model.RawCommitment
	if err := json.Unmarshal(msg.Payload(), &records); err != nil {
		// A malformed batch is dropped; the previous roster stays live.
		s.log.Errorf("decode roster batch: %v", err)
		return
	}
	s.log.Debugw("roster batch received", map[string]any{
		"records": len(records),
		"topic":   msg.Topic(),
	})
	s.handler(records)
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}

// NewClientOptions builds the Paho options from the config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8])
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(clientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
