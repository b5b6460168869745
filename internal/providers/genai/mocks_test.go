package genai

import (
	"context"
	"sync"

	googlegenai "google.golang.org/genai"
)

type fakeGenerator struct {
	mu       sync.Mutex
	calls    int
	model    string
	contents []*googlegenai.Content
	config   *googlegenai.GenerateContentConfig

	resp *googlegenai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*googlegenai.Content, config *googlegenai.GenerateContentConfig) (*googlegenai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func imageResponse(data []byte, mime string) *googlegenai.GenerateContentResponse {
	return &googlegenai.GenerateContentResponse{
		Candidates: []*googlegenai.Candidate{{
			FinishReason: googlegenai.FinishReasonStop,
			Content: &googlegenai.Content{
				Role: "model",
				Parts: []*googlegenai.Part{
					{Text: "Here is your picture"},
					{InlineData: &googlegenai.Blob{MIMEType: mime, Data: data}},
				},
			},
		}},
	}
}
