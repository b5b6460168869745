package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	googlegenai "google.golang.org/genai"

	"adjectivemagic/internal/domain"
)

var (
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

func validRequest() ComparisonRequest {
	return ComparisonRequest{
		Name1:     "Alice",
		Name2:     "Bob",
		Adjective: "taller",
		Image1:    EncodedImage{Data: base64.StdEncoding.EncodeToString(jpegBytes)},
		Image2:    EncodedImage{Data: base64.StdEncoding.EncodeToString(pngBytes), MIMEType: "image/png"},
	}
}

func TestGenerateComparisonSuccess(t *testing.T) {
	gen := &fakeGenerator{resp: imageResponse([]byte("generated"), "image/webp")}
	c := NewClientWithGenerator(gen, Options{})

	img, err := c.GenerateComparison(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, []byte("generated"), img.Data)
	assert.Equal(t, "data:image/webp;base64,"+base64.StdEncoding.EncodeToString([]byte("generated")), img.DataURL())

	require.Len(t, gen.contents, 1)
	parts := gen.contents[0].Parts
	require.Len(t, parts, 5)
	assert.Equal(t, "This photo is of Alice.", parts[0].Text)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, jpegBytes, parts[1].InlineData.Data)
	assert.Equal(t, "This photo is of Bob.", parts[2].Text)
	assert.Equal(t, "image/png", parts[3].InlineData.MIMEType)
	assert.Contains(t, parts[4].Text, "Alice is more taller than Bob")
	assert.ElementsMatch(t, []string{"IMAGE", "TEXT"}, gen.config.ResponseModalities)
}

func TestGenerateComparisonCustomModel(t *testing.T) {
	gen := &fakeGenerator{resp: imageResponse([]byte("x"), "image/png")}
	c := NewClientWithGenerator(gen, Options{Model: "gemini-test"})

	_, err := c.GenerateComparison(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", gen.model)
	assert.Equal(t, "gemini-test", c.Model())
}

func TestGenerateComparisonSafetyBlock(t *testing.T) {
	for _, reason := range []googlegenai.FinishReason{googlegenai.FinishReasonSafety, "IMAGE_SAFETY", "PROHIBITED_CONTENT"} {
		t.Run(string(reason), func(t *testing.T) {
			resp := imageResponse([]byte("ignored"), "image/png")
			resp.Candidates[0].FinishReason = reason
			c := NewClientWithGenerator(&fakeGenerator{resp: resp}, Options{})

			_, err := c.GenerateComparison(context.Background(), validRequest())
			assert.ErrorIs(t, err, domain.ErrPolicyBlocked)
			assert.Contains(t, strings.ToLower(err.Error()), "safety")
		})
	}
}

func TestGenerateComparisonPromptFeedbackBlock(t *testing.T) {
	resp := &googlegenai.GenerateContentResponse{
		PromptFeedback: &googlegenai.GenerateContentResponsePromptFeedback{BlockReason: googlegenai.BlockedReasonSafety},
	}
	c := NewClientWithGenerator(&fakeGenerator{resp: resp}, Options{})

	_, err := c.GenerateComparison(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrPolicyBlocked)
}

func TestGenerateComparisonNoImage(t *testing.T) {
	resp := &googlegenai.GenerateContentResponse{
		Candidates: []*googlegenai.Candidate{{
			FinishReason: googlegenai.FinishReasonStop,
			Content:      &googlegenai.Content{Parts: []*googlegenai.Part{{Text: "I cannot draw that"}}},
		}},
	}
	c := NewClientWithGenerator(&fakeGenerator{resp: resp}, Options{})

	_, err := c.GenerateComparison(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrNoImageReturned)

	_, err = NewClientWithGenerator(&fakeGenerator{resp: &googlegenai.GenerateContentResponse{}}, Options{}).
		GenerateComparison(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrNoImageReturned)
}

func TestGenerateComparisonTransportFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c := NewClientWithGenerator(&fakeGenerator{err: cause}, Options{})

	_, err := c.GenerateComparison(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "dial tcp: connection refused", err.Error())
}

func TestGenerateComparisonAPIErrorMessage(t *testing.T) {
	apiErr := googlegenai.APIError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"}
	c := NewClientWithGenerator(&fakeGenerator{err: apiErr}, Options{})

	_, err := c.GenerateComparison(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Equal(t, "API key not valid", err.Error())
}

func TestGenerateComparisonRejectsBadInput(t *testing.T) {
	gen := &fakeGenerator{resp: imageResponse([]byte("x"), "image/png")}
	c := NewClientWithGenerator(gen, Options{})

	req := validRequest()
	req.Adjective = " "
	_, err := c.GenerateComparison(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrMissingInput)

	req = validRequest()
	req.Image2.Data = "not base64!"
	_, err = c.GenerateComparison(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEncodingFailed)

	assert.Zero(t, gen.calls)
}

func TestFailureMessageFallback(t *testing.T) {
	assert.Equal(t, domain.Message(domain.ErrGenerationFailed, "en"), failureMessage(errors.New("  "), "en"))
}

func TestImageDataURLDefaultsToPNG(t *testing.T) {
	img := &Image{Data: []byte{1, 2, 3}}
	assert.Equal(t, "data:image/png;base64,AQID", img.DataURL())
}

func TestBuildComparisonPrompt(t *testing.T) {
	got := BuildComparisonPrompt(" Alice ", "Bob", "stronger")

	checks := []string{
		"unmodified faces",
		"cartoon-style bodies",
		"Alice is more stronger than Bob",
		"Do not write the adjective on the image.",
		"The names 'Alice' and 'Bob' must be written clearly",
	}
	for _, expect := range checks {
		assert.Contains(t, got, expect)
	}
	assert.Equal(t, 1, strings.Count(got, "stronger"))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{APIKey: "  "})
	assert.Error(t, err)
}
