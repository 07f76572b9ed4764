package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"content-fraud-detection/internal/core"
)

const systemPrompt = `You are a fraud detection engine for a real-time chat platform.

Fraud criteria:
1. Attempts to move conversation off-platform (Telegram, WhatsApp, Discord, email, phone).
2. Sharing or requesting contact information (email, phone number, handles, usernames).
3. Requests for money, crypto, gift cards, wire transfers, wallet addresses or payment instructions.
4. Discussion about communicating outside of this platform.

Rules:
- Be strict.
- Return ONLY valid JSON.
- Do not include extra keys.

Output format (exact):
{"fraud": true|false, "category": "string or null", "reason": "short string or null", "confidence": "low|medium|high"}`

const visionPrompt = "Extract any text, usernames, links, contact info, " +
	"payment requests, QR codes, or scam intent visible in this image. " +
	"Return plain text only."

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	textModel   string
	visionModel string
}

func New(baseURL, apiKey, textModel, visionModel string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		textModel:   textModel,
		visionModel: visionModel,
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify asks for the strict four-key verdict over content. A response
// whose content is not valid per that contract returns ErrMalformedVerdict
// (wrapped); the decision engine turns that into the fallback Decision.
func (c *Client) Classify(ctx context.Context, content string) (core.Verdict, error) {
	raw, err := c.complete(ctx, c.textModel, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Analyze this content:\n" + content},
	})
	if err != nil {
		return core.Verdict{}, err
	}

	var obj struct {
		Fraud      bool    `json:"fraud"`
		Category   *string `json:"category"`
		Reason     *string `json:"reason"`
		Confidence *string `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return core.Verdict{}, fmt.Errorf("%w: %v", core.ErrMalformedVerdict, err)
	}

	v := core.Verdict{Fraud: obj.Fraud}
	if obj.Category != nil {
		v.Category = *obj.Category
	}
	if obj.Reason != nil {
		v.Reason = *obj.Reason
	}
	if obj.Confidence != nil {
		v.Confidence = *obj.Confidence
	}
	return v, nil
}

// DescribeImage converts an image into inspectable text via the vision
// model. The image travels as a base64 data URL; no structural guarantee
// on the returned text.
func (c *Client) DescribeImage(ctx context.Context, image []byte) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	content := []map[string]interface{}{
		{"type": "text", "text": visionPrompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
	}
	return c.complete(ctx, c.visionModel, []chatMessage{
		{Role: "user", Content: content},
	})
}

func (c *Client) complete(ctx context.Context, model string, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("classifier returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
