package messaging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	VHost      string
	Exchange   string
	RetryCount int
	RetryDelay time.Duration
}

func (c Config) ConnectionURL() string {
	vhost := c.VHost
	if vhost != "/" && !strings.HasPrefix(vhost, "/") {
		vhost = "/" + vhost
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		c.Username, c.Password, c.Host, c.Port, vhost)
}

// Client owns the AMQP connection and the topic exchange booking events
// are published to.
type Client struct {
	config Config
	logger *zap.Logger

	mu         sync.RWMutex
	connection *amqp.Connection
	channel    *amqp.Channel
	closing    bool
}

func NewClient(config Config, logger *zap.Logger) *Client {
	if config.RetryCount <= 0 {
		config.RetryCount = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	return &Client{config: config, logger: logger}
}

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	for attempt := 1; attempt <= c.config.RetryCount; attempt++ {
		c.connection, err = amqp.Dial(c.config.ConnectionURL())
		if err != nil {
			c.logger.Warn("rabbitmq connection failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.config.RetryCount),
				zap.Error(err))
			if attempt < c.config.RetryCount {
				time.Sleep(c.config.RetryDelay)
				continue
			}
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}

		c.channel, err = c.connection.Channel()
		if err != nil {
			c.connection.Close()
			return fmt.Errorf("failed to open channel: %w", err)
		}

		err = c.channel.ExchangeDeclare(
			c.config.Exchange,
			"topic",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			c.channel.Close()
			c.connection.Close()
			return fmt.Errorf("failed to declare exchange: %w", err)
		}

		c.logger.Info("connected to rabbitmq",
			zap.String("host", c.config.Host),
			zap.String("exchange", c.config.Exchange))

		go c.watchConnection()
		return nil
	}

	return err
}

func (c *Client) watchConnection() {
	notifyClose := make(chan *amqp.Error)
	c.connection.NotifyClose(notifyClose)

	if err := <-notifyClose; err != nil {
		c.mu.RLock()
		closing := c.closing
		c.mu.RUnlock()
		if closing {
			return
		}

		c.logger.Warn("rabbitmq connection lost, reconnecting", zap.Error(err))
		time.Sleep(2 * time.Second)
		if reconnectErr := c.Connect(); reconnectErr != nil {
			c.logger.Error("rabbitmq reconnect failed", zap.Error(reconnectErr))
		}
	}
}

func (c *Client) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connection != nil && !c.connection.IsClosed()
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return nil
	}
	c.closing = true

	var closeErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			closeErr = fmt.Errorf("channel close: %w", err)
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("connection close: %w", err)
		}
	}
	return closeErr
}
