package sender

import (
	"testing"
	"time"

	"github.com/IBM/sarama"

	"svckit/internal/config"
)

func baseKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:        []string{"localhost:9092"},
		Topic:          "host-metrics",
		MaxRetries:     3,
		RetryBackoff:   100 * time.Millisecond,
		FlushFrequency: 500 * time.Millisecond,
		FlushMessages:  100,
		BatchSize:      16384,
		Timeout:        5 * time.Second,
	}
}

func TestBuildSaramaConfig_CompressionMapping(t *testing.T) {
	cases := []struct {
		name string
		want sarama.CompressionCodec
	}{
		{"snappy", sarama.CompressionSnappy},
		{"gzip", sarama.CompressionGZIP},
		{"lz4", sarama.CompressionLZ4},
		{"zstd", sarama.CompressionZSTD},
		{"", sarama.CompressionSnappy},
		{"unknown", sarama.CompressionSnappy},
	}

	for _, tc := range cases {
		cfg := baseKafkaConfig()
		cfg.Compression = tc.name
		sc, err := buildSaramaConfig(cfg, config.SOCKSConfig{})
		if err != nil {
			t.Fatalf("%q: buildSaramaConfig: %v", tc.name, err)
		}
		if sc.Producer.Compression != tc.want {
			t.Errorf("%q: compression = %v, want %v", tc.name, sc.Producer.Compression, tc.want)
		}
	}
}

func TestBuildSaramaConfig_RequiredAcksMapping(t *testing.T) {
	cases := []struct {
		acks int
		want sarama.RequiredAcks
	}{
		{0, sarama.NoResponse},
		{1, sarama.WaitForLocal},
		{-1, sarama.WaitForAll},
		{99, sarama.WaitForLocal},
	}

	for _, tc := range cases {
		cfg := baseKafkaConfig()
		cfg.RequiredAcks = tc.acks
		sc, err := buildSaramaConfig(cfg, config.SOCKSConfig{})
		if err != nil {
			t.Fatalf("acks %d: buildSaramaConfig: %v", tc.acks, err)
		}
		if sc.Producer.RequiredAcks != tc.want {
			t.Errorf("acks %d: got %v, want %v", tc.acks, sc.Producer.RequiredAcks, tc.want)
		}
	}
}

func TestBuildSaramaConfig_TimeoutsApplied(t *testing.T) {
	cfg := baseKafkaConfig()
	sc, err := buildSaramaConfig(cfg, config.SOCKSConfig{})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if sc.Net.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v", sc.Net.DialTimeout)
	}
	if sc.Net.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", sc.Net.ReadTimeout)
	}
	if sc.Producer.Retry.Max != 3 {
		t.Errorf("Retry.Max = %d", sc.Producer.Retry.Max)
	}
}

func TestBuildSaramaConfig_SCRAMMechanisms(t *testing.T) {
	cfg := baseKafkaConfig()
	cfg.SASLEnabled = true
	cfg.SASLUser = "u"
	cfg.SASLPassword = "p"

	cfg.SASLMechanism = "SCRAM-SHA-256"
	sc, err := buildSaramaConfig(cfg, config.SOCKSConfig{})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if sc.Net.SASL.Mechanism != sarama.SASLTypeSCRAMSHA256 {
		t.Errorf("mechanism = %v", sc.Net.SASL.Mechanism)
	}
	if sc.Net.SASL.SCRAMClientGeneratorFunc == nil {
		t.Error("expected a SCRAM client generator")
	}

	cfg.SASLMechanism = "SCRAM-SHA-512"
	sc, err = buildSaramaConfig(cfg, config.SOCKSConfig{})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if sc.Net.SASL.Mechanism != sarama.SASLTypeSCRAMSHA512 {
		t.Errorf("mechanism = %v", sc.Net.SASL.Mechanism)
	}

	cfg.SASLMechanism = "PLAIN"
	sc, err = buildSaramaConfig(cfg, config.SOCKSConfig{})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if sc.Net.SASL.Mechanism != sarama.SASLTypePlaintext {
		t.Errorf("mechanism = %v", sc.Net.SASL.Mechanism)
	}
}

func TestBuildSaramaConfig_SOCKSProxy(t *testing.T) {
	cfg := baseKafkaConfig()
	sc, err := buildSaramaConfig(cfg, config.SOCKSConfig{Host: "127.0.0.1", Port: 1080})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if !sc.Net.Proxy.Enable {
		t.Error("expected proxy to be enabled")
	}
	if sc.Net.Proxy.Dialer == nil {
		t.Error("expected a proxy dialer")
	}

	sc, err = buildSaramaConfig(cfg, config.SOCKSConfig{})
	if err != nil {
		t.Fatalf("buildSaramaConfig: %v", err)
	}
	if sc.Net.Proxy.Enable {
		t.Error("proxy should stay disabled without a host")
	}
}

func TestXDGSCRAMClient_Begin(t *testing.T) {
	c := &XDGSCRAMClient{HashGeneratorFcn: SHA256}
	if err := c.Begin("user", "pass", ""); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if c.Done() {
		t.Error("conversation should not be done before any step")
	}
}
