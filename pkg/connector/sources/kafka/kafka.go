// Package kafka provides the Kafka table source factory.
//
// Creating a source only translates table options into a sarama consumer
// configuration and validates it; no broker is contacted until the
// execution engine uses the runtime provider.
package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Identifier is the factory identifier of the Kafka connector.
const Identifier = "kafka"

const (
	StartupEarliest = "earliest-offset"
	StartupLatest   = "latest-offset"
)

var (
	Topic            = options.String("topic").WithDescription("Topic to read from.")
	BootstrapServers = options.String("properties.bootstrap.servers").WithDescription("Comma separated list of Kafka brokers.")
	GroupID          = options.String("properties.group.id").WithDescription("Consumer group id.")
	ClientID         = options.String("properties.client.id").WithDefault("tablefactory")
	Version          = options.String("properties.version").WithDescription("Kafka protocol version, e.g. 3.6.0.")
	StartupMode      = options.Enum("scan.startup.mode", StartupEarliest, StartupLatest).WithDefault(StartupLatest)
	ScanBounded      = options.Bool("scan.bounded").WithDefault(false).WithDescription("Stop at the latest offsets seen at startup.")
	FetchMaxWait     = options.Duration("scan.fetch.max-wait").WithDefault(500 * time.Millisecond)
)

func init() {
	registry.Provide(NewFactory())
}

// Factory creates Kafka scan sources
type Factory struct{}

// NewFactory creates the Kafka factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) FactoryIdentifier() string { return Identifier }

func (f *Factory) RequiredOptions() []options.Key {
	return []options.Key{Topic.Key(), BootstrapServers.Key()}
}

func (f *Factory) OptionalOptions() []options.Key {
	return []options.Key{
		GroupID.Key(),
		ClientID.Key(),
		Version.Key(),
		StartupMode.Key(),
		ScanBounded.Key(),
		FetchMaxWait.Key(),
	}
}

// CreateSource implements core.SourceFactory
func (f *Factory) CreateSource(ctx *core.Context) (core.TableSource, error) {
	s := settings{
		topic:       options.Get(ctx.Options, Topic),
		groupID:     options.Get(ctx.Options, GroupID),
		clientID:    options.Get(ctx.Options, ClientID),
		startupMode: options.Get(ctx.Options, StartupMode),
		bounded:     options.Get(ctx.Options, ScanBounded),
		maxWait:     options.Get(ctx.Options, FetchMaxWait),
	}

	servers := options.Get(ctx.Options, BootstrapServers)
	for _, b := range strings.Split(servers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			s.brokers = append(s.brokers, b)
		}
	}
	if len(s.brokers) == 0 {
		return nil, errors.InvalidOptionValue(BootstrapServers.Name(), servers, "comma separated broker list", nil)
	}

	if raw, ok := options.Lookup(ctx.Options, Version); ok {
		v, err := sarama.ParseKafkaVersion(raw)
		if err != nil {
			return nil, errors.InvalidOptionValue(Version.Name(), raw, "Kafka version", err)
		}
		s.version = v
	} else {
		s.version = sarama.DefaultVersion
	}

	if _, err := s.config(); err != nil {
		return nil, err
	}

	return &Source{settings: s, schema: ctx.Schema.Clone()}, nil
}

type settings struct {
	topic       string
	brokers     []string
	groupID     string
	clientID    string
	version     sarama.KafkaVersion
	startupMode string
	bounded     bool
	maxWait     time.Duration
}

// config builds a fresh consumer configuration on every call.
func (s settings) config() (*sarama.Config, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = s.clientID
	cfg.Version = s.version
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.MaxWaitTime = s.maxWait
	if s.startupMode == StartupEarliest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid kafka consumer configuration").
			WithDetail(errors.DetailIdentifier, Identifier)
	}
	return cfg, nil
}

// Source is an insert-only Kafka topic scan.
type Source struct {
	settings settings
	schema   *schema.Schema
}

// Copy implements core.TableSource
func (s *Source) Copy() core.TableSource {
	c := s.settings
	c.brokers = append([]string(nil), s.settings.brokers...)
	return &Source{settings: c, schema: s.schema.Clone()}
}

// SummaryString implements core.TableSource
func (s *Source) SummaryString() string {
	return fmt.Sprintf("Kafka(topic=%s, startup=%s, bounded=%t)", s.settings.topic, s.settings.startupMode, s.settings.bounded)
}

// ChangelogMode implements core.ScanTableSource
func (s *Source) ChangelogMode() core.ChangelogMode {
	return core.InsertOnly()
}

// ScanRuntimeProvider implements core.ScanTableSource
func (s *Source) ScanRuntimeProvider(core.ScanContext) (core.ScanRuntimeProvider, error) {
	cfg, err := s.settings.config()
	if err != nil {
		return nil, err
	}
	rowType, err := s.schema.ToArrow()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "unsupported table schema")
	}
	return &RuntimeProvider{
		Topic:   s.settings.topic,
		Brokers: append([]string(nil), s.settings.brokers...),
		GroupID: s.settings.groupID,
		Config:  cfg,
		RowType: rowType,
		bounded: s.settings.bounded,
	}, nil
}

// RuntimeProvider carries everything a consumer needs to start reading.
type RuntimeProvider struct {
	Topic   string
	Brokers []string
	GroupID string
	Config  *sarama.Config
	RowType *arrow.Schema
	bounded bool
}

// IsBounded implements core.ScanRuntimeProvider
func (p *RuntimeProvider) IsBounded() bool {
	return p.bounded
}
