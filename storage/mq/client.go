package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"PostPilot/config"
)

// 拓扑：延迟交换机 + 画像补齐队列。
// x-delayed-message 插件按消息头 x-delay 延迟投递
const (
	ExchangeDelayed = "postpilot.delayed"

	QueueProfileEnrich      = "profile.enrich"
	RoutingKeyProfileEnrich = "profile.enrich"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()

		conn, connErr = amqp.Dial(url)
		if connErr != nil {
			return
		}

		connErr = declareTopology()
	})

	return connErr
}

func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		ExchangeDelayed,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "direct"},
	); err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueProfileEnrich,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", QueueProfileEnrich, err)
	}

	if err := ch.QueueBind(
		QueueProfileEnrich,
		RoutingKeyProfileEnrich,
		ExchangeDelayed,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", QueueProfileEnrich, err)
	}

	return nil
}

// Connection 获取底层连接，consumer 用它开自己的 channel
func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
