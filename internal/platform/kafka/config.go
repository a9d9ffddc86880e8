package kafka

import (
	"time"

	pidstrings "pidstore/pkg/platform/strings"
)

// ProducerConfig holds configuration for the Kafka producer.
type ProducerConfig struct {
	Brokers         string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// DefaultProducerConfig waits for all in-sync replicas.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 30 * time.Second,
	}
}

// SplitBrokers turns a comma separated broker list into unique seed addresses.
func SplitBrokers(brokers string) []string {
	return pidstrings.SplitList(brokers, ",")
}
