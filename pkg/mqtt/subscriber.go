// Package mqtt ingests readings published to a broker topic.
package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/config"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

const (
	connectTimeout    = 10 * time.Second
	subscribeTimeout  = 5 * time.Second
	keepAlive         = 60 * time.Second
	disconnectQuiesce = 1000 // milliseconds
	handleTimeout     = 5 * time.Second
)

var (
	ErrConnectionFailed = errors.New("mqtt connection failed")
	ErrSubscribeFailed  = errors.New("mqtt subscribe failed")
	ErrInvalidPayload   = errors.New("invalid reading payload")
)

// Subscriber feeds every message on the configured topic through UpdateData.
// A bad message is logged and dropped; it never stops the subscription.
type Subscriber struct {
	cfg       config.MQTTConfig
	telemetry *telemetry.Telemetry

	mu     sync.Mutex
	client pahomqtt.Client
}

func NewSubscriber(cfg config.MQTTConfig, tel *telemetry.Telemetry) *Subscriber {
	return &Subscriber{cfg: cfg, telemetry: tel}
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameMQTTIngest)
}

func (s *Subscriber) clientOptions() *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)

	// subscriptions do not survive a clean session, so redo them on every connect
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		if err := s.subscribe(c); err != nil {
			logger().Error("Failed to subscribe", zap.String("topic", s.cfg.Topic), zap.Error(err))
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger().Warn("Lost broker connection", zap.String("broker", s.cfg.Broker), zap.Error(err))
	})

	return opts
}

// Start connects to the broker and subscribes to the topic.
func (s *Subscriber) Start() error {
	client := pahomqtt.NewClient(s.clientOptions())

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	logger().Info("Subscribed to readings",
		zap.String("broker", s.cfg.Broker),
		zap.String("topic", s.cfg.Topic),
	)
	return nil
}

func (s *Subscriber) subscribe(c pahomqtt.Client) error {
	token := c.Subscribe(s.cfg.Topic, s.cfg.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		if err := s.HandleMessage(ctx, msg.Topic(), msg.Payload()); err != nil {
			logger().Warn("Dropped reading message",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	})
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, subscribeTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return
	}
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(subscribeTimeout)
	}
	s.client.Disconnect(disconnectQuiesce)
	s.client = nil
}

// HandleMessage decodes one payload and stores it as a reading.
func (s *Subscriber) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	req, err := decodeReading(payload)
	if err != nil {
		return err
	}

	if !s.telemetry.AdmitWrite(req.APIKey, req.DeviceName) {
		return telemetry.ErrRateLimited
	}

	if _, err := s.telemetry.UpdateData(ctx, req); err != nil {
		return err
	}

	logger().Debug("Ingested reading",
		zap.String("topic", topic),
		zap.String("device_name", req.DeviceName),
	)
	return nil
}

// decodeReading accepts reading values as JSON numbers or strings. Numbers keep
// their original text.
func decodeReading(payload []byte) (telemetry.UpdateDataRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return telemetry.UpdateDataRequest{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return telemetry.UpdateDataRequest{
		APIKey:      text(raw[common.ParamAPIKey]),
		DeviceName:  text(raw[common.ParamDeviceName]),
		Temperature: text(raw[common.ParamTemperature]),
		Humidity:    text(raw[common.ParamHumidity]),
	}, nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
