package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/pullscout/internal/retry"
)

type stubModel struct {
	response string
	err      error
	calls    int
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	s.calls++
	return s.response, s.err
}

func testClient(model llms.Model) *Client {
	return &Client{
		model: model,
		opts:  Options{Model: "test-model", MaxTokens: 700},
		retryConfig: retry.Config{
			MaxRetries: 1,
			BaseDelay:  time.Millisecond,
			MaxDelay:   time.Millisecond,
			Multiplier: 1.0,
		},
	}
}

func TestReview_Success(t *testing.T) {
	client := testClient(&stubModel{response: `[{"lineNumber": 5, "reviewComment": "check the error"}]`})

	got, ok := client.Review(context.Background(), "prompt")
	if !ok {
		t.Fatal("expected a result")
	}
	if len(got) != 1 || got[0].LineNumber != 5 {
		t.Errorf("unexpected suggestions: %+v", got)
	}
}

func TestReview_EmptyResponseIsNotAnError(t *testing.T) {
	client := testClient(&stubModel{response: "[]"})

	got, ok := client.Review(context.Background(), "prompt")
	if !ok {
		t.Fatal("empty array should still be a result")
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestions, got %+v", got)
	}
}

func TestReview_TransportFailureYieldsNoResult(t *testing.T) {
	stub := &stubModel{err: errors.New("connection refused to model host")}
	client := testClient(stub)

	got, ok := client.Review(context.Background(), "prompt")
	if ok {
		t.Fatal("expected no result on transport failure")
	}
	if got != nil {
		t.Errorf("expected nil suggestions, got %+v", got)
	}
	if stub.calls != 2 {
		t.Errorf("retryable error should be retried once, got %d calls", stub.calls)
	}
}

func TestReview_NonRetryableFailureFailsFast(t *testing.T) {
	stub := &stubModel{err: errors.New("invalid api key")}
	client := testClient(stub)

	if _, ok := client.Review(context.Background(), "prompt"); ok {
		t.Fatal("expected no result")
	}
	if stub.calls != 1 {
		t.Errorf("non-retryable error should not be retried, got %d calls", stub.calls)
	}
}

func TestReview_UnparsableResponseYieldsNoResult(t *testing.T) {
	client := testClient(&stubModel{response: `[42]`})

	if _, ok := client.Review(context.Background(), "prompt"); ok {
		t.Fatal("expected no result for unparsable response")
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{Provider: ProviderOpenAI}); err == nil {
		t.Error("expected error when model identifier is missing")
	}
	if _, err := NewClient(context.Background(), Options{Provider: "carrier-pigeon", Model: "x"}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
