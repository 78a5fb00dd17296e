package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/config"
	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

const (
	payloadOnline  = "online"
	payloadOffline = "offline"
	waitTimeout    = 5 * time.Second
)

var errTimeout = errors.New("unable to connect in time")

// Dispatcher runs an action against an entity.
type Dispatcher interface {
	Dispatch(ctx context.Context, uniqueID string, action entity.Action) (entity.Result, error)
}

type service struct {
	client     paho_mqtt.Client
	cfg        *config.MqttConfig
	dispatcher Dispatcher
	logger     *zap.Logger
	connected  atomic.Bool
	sessions   atomic.Int32
	// reconnected runs after a reconnect has been announced.
	reconnected func()

	mu       sync.RWMutex
	devices  map[string]model.Device
	entities map[string]model.Entity
	// slugs maps topic slugs back to unique ids.
	slugs map[string]string
}

func New(client paho_mqtt.Client, cfg *config.MqttConfig, dispatcher Dispatcher) *service {
	return &service{
		client:     client,
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     zap.L(),
		devices:    map[string]model.Device{},
		entities:   map[string]model.Entity{},
		slugs:      map[string]string{},
	}
}

// NewService builds the paho client from cfg. The broker holds an offline
// will on the status topic; reconnects re-announce and resubscribe.
func NewService(cfg *config.MqttConfig, dispatcher Dispatcher) *service {
	s := New(nil, cfg, dispatcher)
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Host).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetWill(s.statusTopic(), payloadOffline, 1, true).
		SetAutoReconnect(true).
		// command handlers block on a refresh that publishes
		SetOrderMatters(false).
		SetOnConnectHandler(s.onConnect).
		SetConnectionLostHandler(func(_ paho_mqtt.Client, err error) {
			s.logger.Warn("mqtt connection lost", zap.Error(err))
		})
	s.client = paho_mqtt.NewClient(opts)
	return s
}

// OnReconnect registers fn to run once the session is re-established after a
// lost connection. The broker may have dropped retained discovery and state
// messages, so fn should arrange for everything to be published again. Call
// it before Connect.
func (s *service) OnReconnect(fn func()) {
	s.reconnected = fn
}

// onConnect handles paho connects. The first session is announced by Connect.
func (s *service) onConnect(paho_mqtt.Client) {
	if s.sessions.Add(1) == 1 {
		return
	}
	if err := s.announce(); err != nil {
		s.logger.Error("failed to announce after reconnect", zap.Error(err))
		return
	}
	s.logger.Info("reconnected to mqtt broker", zap.String("host", s.cfg.Host))
	if s.reconnected != nil {
		s.reconnected()
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(waitTimeout) {
		return errTimeout
	}
	if err := token.Error(); err != nil {
		return err
	}
	if err := s.announce(); err != nil {
		return err
	}
	s.connected.Store(true)
	return nil
}

// Run keeps the session until ctx is cancelled, then publishes offline and
// disconnects. It connects first unless Connect already succeeded.
func (s *service) Run(ctx context.Context) error {
	if !s.connected.Load() {
		if err := s.Connect(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
	}
	s.logger.Info("connected to mqtt broker", zap.String("host", s.cfg.Host))
	<-ctx.Done()
	s.Disconnect()
	return nil
}

func (s *service) Disconnect() {
	if err := s.publish(s.statusTopic(), 1, true, []byte(payloadOffline)); err != nil {
		s.logger.Warn("failed to publish offline status", zap.Error(err))
	}
	s.client.Disconnect(250)
	s.connected.Store(false)
}

func (s *service) announce() error {
	if err := s.publish(s.statusTopic(), 1, true, []byte(payloadOnline)); err != nil {
		return err
	}
	filters := map[string]byte{
		s.cfg.Root + "/+/set":   1,
		s.cfg.Root + "/+/set/+": 1,
	}
	token := s.client.SubscribeMultiple(filters, s.onCommand)
	if !token.WaitTimeout(waitTimeout) {
		return errors.New("subscribe timed out")
	}
	return token.Error()
}

func (s *service) publish(topic string, qos byte, retained bool, payload []byte) error {
	token := s.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(waitTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (s *service) statusTopic() string {
	return s.cfg.Root + "/status"
}

func (s *service) stateTopic(slug string) string {
	return fmt.Sprintf("%s/%s/state", s.cfg.Root, slug)
}

func (s *service) availabilityTopic(slug string) string {
	return fmt.Sprintf("%s/%s/availability", s.cfg.Root, slug)
}

func (s *service) commandTopic(slug string) string {
	return fmt.Sprintf("%s/%s/set", s.cfg.Root, slug)
}
