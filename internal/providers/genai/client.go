package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	googlegenai "google.golang.org/genai"

	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/infra"
)

// DefaultModel is the Gemini model able to return mixed image and text output.
const DefaultModel = "gemini-2.5-flash-image-preview"

const defaultImageMIME = "image/png"

// ContentGenerator is the slice of the Gemini SDK the client depends on.
// *googlegenai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*googlegenai.Content, config *googlegenai.GenerateContentConfig) (*googlegenai.GenerateContentResponse, error)
}

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client turns a comparison into one Gemini generateContent call and
// interprets the response. It never retries or caches: every invocation is
// exactly one outbound request.
type Client struct {
	models ContentGenerator
	model  string
	logger *infra.Logger
}

// EncodedImage is a photo in transport encoding (standard base64, no
// data-URL prefix).
type EncodedImage struct {
	Data     string
	MIMEType string
}

// ComparisonRequest is everything one generation needs.
type ComparisonRequest struct {
	Name1     string
	Name2     string
	Adjective string
	Image1    EncodedImage
	Image2    EncodedImage
	Locale    string
}

// Image is the generated picture.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL renders the image as a reference a browser can display directly.
func (i *Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = defaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// NewClient builds a client backed by the Gemini API.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	sdk, err := newSDK(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewClientWithGenerator(sdk.Models, opts), nil
}

func newSDK(ctx context.Context, opts Options) (*googlegenai.Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	sdk, err := googlegenai.NewClient(ctx, &googlegenai.ClientConfig{
		APIKey:     apiKey,
		Backend:    googlegenai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	return sdk, nil
}

// NewClientWithGenerator wires the client to an arbitrary ContentGenerator.
func NewClientWithGenerator(models ContentGenerator, opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{models: models, model: model, logger: logger}
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateComparison asks the model for a cartoon showing req.Name1 as more
// req.Adjective than req.Name2.
func (c *Client) GenerateComparison(ctx context.Context, req ComparisonRequest) (*Image, error) {
	if strings.TrimSpace(req.Name1) == "" || strings.TrimSpace(req.Name2) == "" || strings.TrimSpace(req.Adjective) == "" {
		return nil, domain.NewError(domain.ErrMissingInput, req.Locale, nil)
	}

	img1, err := decodeImage(req.Image1)
	if err != nil {
		return nil, domain.NewError(domain.ErrEncodingFailed, req.Locale, fmt.Errorf("image 1: %w", err))
	}
	img2, err := decodeImage(req.Image2)
	if err != nil {
		return nil, domain.NewError(domain.ErrEncodingFailed, req.Locale, fmt.Errorf("image 2: %w", err))
	}

	contents := []*googlegenai.Content{{
		Role: "user",
		Parts: []*googlegenai.Part{
			{Text: photoCaption(req.Name1)},
			{InlineData: img1},
			{Text: photoCaption(req.Name2)},
			{InlineData: img2},
			{Text: BuildComparisonPrompt(req.Name1, req.Name2, req.Adjective)},
		},
	}}
	config := &googlegenai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	latency := time.Since(start)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Dur("latency", latency).
			Msg("genai: generate content failed")
		return nil, &domain.Error{Kind: domain.ErrGenerationFailed, Message: failureMessage(err, req.Locale), Err: err}
	}

	img, err := parseResponse(resp, req.Locale)
	event := c.logger.Info()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("model", c.model).
		Str("name1", req.Name1).
		Str("name2", req.Name2).
		Str("adjective", req.Adjective).
		Dur("latency", latency).
		Msg("genai: comparison generated")
	if err != nil {
		return nil, err
	}
	return img, nil
}

func decodeImage(img EncodedImage) (*googlegenai.Blob, error) {
	if img.Data == "" {
		return nil, errors.New("empty image data")
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	mime := strings.TrimSpace(img.MIMEType)
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/jpeg"
		}
	}
	return &googlegenai.Blob{MIMEType: mime, Data: data}, nil
}

// isPolicyBlock reports whether a finish reason belongs to the safety and
// policy family.
func isPolicyBlock(reason googlegenai.FinishReason) bool {
	switch reason {
	case googlegenai.FinishReasonSafety,
		googlegenai.FinishReason("IMAGE_SAFETY"),
		googlegenai.FinishReason("PROHIBITED_CONTENT"),
		googlegenai.FinishReason("BLOCKLIST"),
		googlegenai.FinishReason("SPII"):
		return true
	}
	return false
}

// parseResponse applies the result rules: a safety block wins, then the
// first inline image part of the first candidate, otherwise no image.
func parseResponse(resp *googlegenai.GenerateContentResponse, locale string) (*Image, error) {
	if resp == nil {
		return nil, domain.NewError(domain.ErrNoImageReturned, locale, errors.New("empty response"))
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != googlegenai.BlockedReasonUnspecified {
		return nil, domain.NewError(domain.ErrPolicyBlocked, locale, fmt.Errorf("prompt blocked: %s", fb.BlockReason))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, domain.NewError(domain.ErrNoImageReturned, locale, errors.New("no candidates"))
	}

	candidate := resp.Candidates[0]
	if isPolicyBlock(candidate.FinishReason) {
		return nil, domain.NewError(domain.ErrPolicyBlocked, locale, fmt.Errorf("finish reason %s", candidate.FinishReason))
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = defaultImageMIME
			}
			return &Image{Data: part.InlineData.Data, MIMEType: mime}, nil
		}
	}
	return nil, domain.NewError(domain.ErrNoImageReturned, locale, fmt.Errorf("finish reason %q without image part", candidate.FinishReason))
}

// failureMessage surfaces the service's own message when it has one.
func failureMessage(err error, locale string) string {
	var apiErr googlegenai.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return strings.TrimSpace(err.Error())
	}
	return domain.Message(domain.ErrGenerationFailed, locale)
}
