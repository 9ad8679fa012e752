package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Broker drivers understood by the kafka infrastructure factory.
const (
	DriverFranz   = "franz"
	DriverKafkaGo = "kafka-go"
)

// Call sites that own a timeout policy.
const (
	SiteTopicList        = "topic_list"
	SiteTopicCount       = "topic_count"
	SitePartition        = "partition"
	SitePartitionBrokers = "partition_brokers"
)

// ClusterConfig holds connectivity settings for a named cluster. A request host that matches
// Name resolves to these brokers; any other host is dialed with the defaults.
type ClusterConfig struct {
	Name          string     `yaml:"name" json:"name"`
	Brokers       []string   `yaml:"brokers" json:"brokers"`
	ClientID      string     `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	Driver        string     `yaml:"driver,omitempty" json:"driver,omitempty"`
	DialTimeoutMs int        `yaml:"dial_timeout_ms,omitempty" json:"dial_timeout_ms,omitempty"`
	TLS           *TLSConfig `yaml:"tls,omitempty" json:"tls,omitempty"`
}

// TLSConfig holds TLS related fields.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	CAFile             string `yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	CertFile           string `yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile            string `yaml:"key_file,omitempty" json:"key_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
}

// TimeoutPolicy is the escalating deadline applied to one call site.
type TimeoutPolicy struct {
	InitialMs   int `yaml:"initial_ms" json:"initial_ms"`
	IncrementMs int `yaml:"increment_ms" json:"increment_ms"`
	MaxTries    int `yaml:"max_tries" json:"max_tries"`
}

// Initial returns the first-attempt bound.
func (p TimeoutPolicy) Initial() time.Duration {
	return time.Duration(p.InitialMs) * time.Millisecond
}

// Increment returns the per-try escalation.
func (p TimeoutPolicy) Increment() time.Duration {
	return time.Duration(p.IncrementMs) * time.Millisecond
}

// Settings tunes the aggregation engine.
type Settings struct {
	// FanoutLimit bounds concurrent partition and topic calls per join; 0 means unbounded.
	FanoutLimit   int    `yaml:"fanout_limit,omitempty" json:"fanout_limit,omitempty"`
	ShowInternal  bool   `yaml:"show_internal,omitempty" json:"show_internal,omitempty"`
	DefaultDriver string `yaml:"default_driver,omitempty" json:"default_driver,omitempty"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

type FileConfig struct {
	Clusters []ClusterConfig          `yaml:"clusters" json:"clusters"`
	Timeouts map[string]TimeoutPolicy `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
	Settings Settings                 `yaml:"settings,omitempty" json:"settings,omitempty"`
	Server   ServerConfig             `yaml:"server,omitempty" json:"server,omitempty"`
}

// DefaultTimeouts returns the built-in policy per call site. The topic list escalates furthest
// since its latency grows with the number of topics.
func DefaultTimeouts() map[string]TimeoutPolicy {
	return map[string]TimeoutPolicy{
		SiteTopicList:        {InitialMs: 15000, IncrementMs: 5000, MaxTries: 10},
		SiteTopicCount:       {InitialMs: 15000, IncrementMs: 5000, MaxTries: 3},
		SitePartition:        {InitialMs: 15000, IncrementMs: 5000, MaxTries: 1},
		SitePartitionBrokers: {InitialMs: 15000, IncrementMs: 5000, MaxTries: 1},
	}
}

// TimeoutFor returns the policy for site, filling zero fields from the defaults.
func (c FileConfig) TimeoutFor(site string) TimeoutPolicy {
	def, ok := DefaultTimeouts()[site]
	if !ok {
		def = TimeoutPolicy{InitialMs: 15000, IncrementMs: 5000, MaxTries: 1}
	}
	p, ok := c.Timeouts[site]
	if !ok {
		return def
	}
	if p.InitialMs <= 0 {
		p.InitialMs = def.InitialMs
	}
	if p.IncrementMs < 0 {
		p.IncrementMs = def.IncrementMs
	}
	if p.MaxTries <= 0 {
		p.MaxTries = def.MaxTries
	}
	return p
}

// FindCluster returns the cluster named name.
func (c FileConfig) FindCluster(name string) (ClusterConfig, bool) {
	for _, cl := range c.Clusters {
		if cl.Name == name {
			return cl, true
		}
	}
	return ClusterConfig{}, false
}

// DriverOrDefault returns the cluster driver, falling back to def and then to franz.
func (c ClusterConfig) DriverOrDefault(def string) string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" {
		d = strings.ToLower(strings.TrimSpace(def))
	}
	if d == "" {
		return DriverFranz
	}
	return d
}

// DialTimeout returns the configured dial timeout or 10s.
func (c ClusterConfig) DialTimeout() time.Duration {
	if c.DialTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.DialTimeoutMs) * time.Millisecond
}

// ParseHost splits a host URI into broker addresses. It accepts comma separated lists and
// strips an optional kafka:// or tcp:// scheme.
func ParseHost(host string) []string {
	var out []string
	for _, part := range strings.Split(host, ",") {
		part = strings.TrimSpace(part)
		for _, scheme := range []string{"kafka://", "tcp://"} {
			part = strings.TrimPrefix(part, scheme)
		}
		part = strings.TrimSuffix(part, "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func ReadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func WriteConfig(path string, cfg FileConfig) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
