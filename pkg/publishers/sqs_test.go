package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/userpost/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), Event{ID: "evt-1", StatusCode: 201, Body: "created"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["status_code"]
	if !ok || aws.ToString(attr.StringValue) != "201" || aws.ToString(attr.DataType) != "Number" {
		t.Fatalf("status_code attribute missing or wrong: %#v", attr)
	}
	attr, ok = client.input.MessageAttributes["event_id"]
	if !ok || aws.ToString(attr.StringValue) != "evt-1" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("event_id attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"body":"created"`) {
		t.Fatalf("MessageBody missing body: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{ID: "evt-1"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestNewSQSPublisherRequiresConfig(t *testing.T) {
	if _, err := newSQSPublisher(context.Background(), PublisherConfig{ID: "q", Type: TypeSQS}, nil); err == nil {
		t.Fatalf("expected error for missing sqs block")
	}
}
