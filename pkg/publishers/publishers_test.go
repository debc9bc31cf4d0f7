package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func findByID(cfgs []PublisherConfig, id string) (PublisherConfig, bool) {
	for _, cfg := range cfgs {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return PublisherConfig{}, false
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/results
      region: us-east-1
      endpoint: http://localhost:4566
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "queue" {
		t.Fatalf("expected only queue enabled, got %#v", enabled)
	}
	q := enabled[0]
	if q.Type != TypeSQS || q.SQS.Region != "us-east-1" || q.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("sqs block not decoded: %#v", q.SQS)
	}

	hook, ok := findByID(reg.All(), "hook1")
	if !ok {
		t.Fatalf("hook1 not loaded")
	}
	if hook.HTTP.Method != httpDefaultMethod || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", hook.HTTP)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{
  "publishers": [
    {"id": "topic", "type": "gcp_pubsub", "gcp_pubsub": {"project_id": "p", "topic": "t"}},
    {"id": "alerts", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:us-east-1:123:alerts", "region": "us-east-1"}}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(reg.All()))
	}
	alerts, _ := findByID(reg.All(), "alerts")
	if alerts.SNS == nil || alerts.SNS.Region != "us-east-1" {
		t.Fatalf("embedded aws access not decoded from json: %#v", alerts.SNS)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yml", `
publishers:
  - id: a
    type: http
    http:
      url: https://example.com
  - id: a
    type: http
    http:
      url: https://example.com/2
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadRegistry(writeFile(t, "empty.yaml", "publishers: []\n")); err == nil {
		t.Fatalf("expected error for empty publishers list")
	}
	if _, err := LoadRegistry(writeFile(t, "bad.json", "{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{name: "missing id", cfg: PublisherConfig{Type: TypeHTTP}},
		{name: "missing type", cfg: PublisherConfig{ID: "x"}},
		{name: "unknown type", cfg: PublisherConfig{ID: "x", Type: "kafka"}},
		{name: "missing http block", cfg: PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{name: "missing sqs region", cfg: PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}}},
		{name: "half static keys", cfg: PublisherConfig{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{
			TopicARN:        "arn",
			AWSAccessConfig: AWSAccessConfig{Region: "us-east-1", AccessKeyID: "AKIA"},
		}}},
		{name: "missing pubsub topic", cfg: PublisherConfig{ID: "p", Type: TypeGCPPubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(tc.cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSanitizeHeadersDropsEmpty(t *testing.T) {
	got := sanitizeHeaders(map[string]string{" X-A ": " 1 ", "": "v", "X-B": " "})
	if len(got) != 1 || got["X-A"] != "1" {
		t.Fatalf("unexpected headers %#v", got)
	}
	if sanitizeHeaders(map[string]string{"": ""}) != nil {
		t.Fatalf("expected nil for all-empty headers")
	}
}
