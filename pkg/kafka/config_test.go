package kafka

import "testing"

func TestEnabled(t *testing.T) {
	t.Setenv(EnvBrokers, "")
	if Enabled() {
		t.Error("Enabled() = true with no brokers configured")
	}

	t.Setenv(EnvBrokers, "broker-1:9092,broker-2:9092")
	if !Enabled() {
		t.Error("Enabled() = false with brokers configured")
	}
}

func TestLoadConfigSplitsAndTrimsBrokers(t *testing.T) {
	t.Setenv(EnvBrokers, "broker-1:9092, broker-2:9092")

	cfg := LoadConfig()

	want := []string{"broker-1:9092", "broker-2:9092"}
	if len(cfg.Brokers) != len(want) {
		t.Fatalf("Brokers = %v, want %v", cfg.Brokers, want)
	}
	for i := range want {
		if cfg.Brokers[i] != want[i] {
			t.Errorf("Brokers[%d] = %q, want %q", i, cfg.Brokers[i], want[i])
		}
	}
}

func TestValidateRejectsEmptyBroker(t *testing.T) {
	cfg := &Config{
		Brokers:              []string{"broker-1:9092", ""},
		ProducerMaxAttempts:  DefaultProducerMaxAttempts,
		ProducerBatchTimeout: DefaultProducerBatchTimeout,
		ConsumerMinBytes:     DefaultConsumerMinBytes,
		ConsumerMaxBytes:     DefaultConsumerMaxBytes,
		ConsumerMaxWait:      DefaultConsumerMaxWait,
		ConsumerMaxRetries:   DefaultConsumerMaxRetries,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty broker entry")
	}
}
