// Package imagegen wraps the generative image model that renders a client
// photo with a reference hairstyle.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Prompt instructs the model to transfer the hairstyle of the second image
// onto the person in the first.
const Prompt = "Apply the hairstyle from the second image to the person in the first image. " +
	"Keep the person's face, skin tone, expression, clothing and background unchanged. " +
	"Return only the edited photo."

// ErrNoImage is returned when the model answers without an image part.
var ErrNoImage = errors.New("model returned no image")

// Image is raw image bytes with their MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator produces an edited photo from a client photo and a style photo.
type Generator interface {
	Generate(ctx context.Context, photo, style Image, prompt string) (Image, error)
}

// contentGenerator is the slice of the genai models API used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini calls a Gemini image model through the Gen AI SDK.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini builds a client for the Gemini Developer API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, photo, style Image, prompt string) (Image, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(photo.Data, photo.MIMEType),
			genai.NewPartFromBytes(style.Data, style.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return Image{}, err
	}
	return firstImage(resp)
}

// firstImage returns the first inline image of the response.  Without one,
// any text the model produced is attached to ErrNoImage.
func firstImage(resp *genai.GenerateContentResponse) (Image, error) {
	if resp == nil {
		return Image{}, ErrNoImage
	}
	var text []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return Image{Data: part.InlineData.Data, MIMEType: mime}, nil
			}
			if part.Text != "" {
				text = append(text, part.Text)
			}
		}
	}
	if len(text) > 0 {
		return Image{}, fmt.Errorf("%w: %s", ErrNoImage, strings.Join(text, " "))
	}
	return Image{}, ErrNoImage
}

// Unconfigured fails every call; used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, Image, Image, string) (Image, error) {
	return Image{}, errors.New("GEMINI_API_KEY is not set")
}
