package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// LogSink writes entries through zerolog.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Log(_ context.Context, entry Entry) error {
	s.logger.Info().
		Str("audit_id", entry.Id).
		Time("timestamp", entry.Timestamp).
		Str("log_level", entry.Level).
		Str("audit_component", entry.Component).
		Str("operation", entry.Operation).
		Str("user_id", entry.UserId).
		Float64("execution_time", entry.ExecutionTime).
		Interface("metadata", entry.Metadata).
		Str("environment", entry.Environment).
		Msg(entry.Message)

	return nil
}

func (s *LogSink) Close(context.Context) error { return nil }

// MongoSink stores entries in the system_logs collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoSink(ctx context.Context, uri string, database string) (*MongoSink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	collection := client.Database(database).Collection("system_logs")

	_, err = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "log_level", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create audit indexes: %w", err)
	}

	return &MongoSink{client: client, collection: collection}, nil
}

func (s *MongoSink) Log(ctx context.Context, entry Entry) error {
	_, err := s.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type publisher interface {
	Publish(exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes entries as JSON on a topic exchange, routed by operation.
type AMQPSink struct {
	channel  publisher
	exchange string
	closeFn  func() error
}

func NewAMQPSink(url string, exchange string) (*AMQPSink, error) {
	if url == "" {
		return nil, fmt.Errorf("amqp connection string required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPSink{
		channel:  channel,
		exchange: exchange,
		closeFn: func() error {
			_ = channel.Close()
			return conn.Close()
		},
	}, nil
}

func (s *AMQPSink) Log(_ context.Context, entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	err = s.channel.Publish(s.exchange, "audit."+entry.Operation, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   entry.Id,
		Timestamp:   entry.Timestamp,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish audit entry: %w", err)
	}

	return nil
}

func (s *AMQPSink) Close(context.Context) error {
	if s.closeFn == nil {
		return nil
	}

	return s.closeFn()
}
