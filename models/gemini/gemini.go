package gemini

import (
	"context"
	"fmt"

	models "github.com/Desarso/nexus/models"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the backend uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini_Model struct {
	Model      string
	Credential CredentialFunc
	Logger     zerolog.Logger

	generator contentGenerator
}

func (g *Gemini_Model) Generate(ctx context.Context, request models.Model_Request) (models.Model_Response, error) {
	gen, err := g.contentGenerator(ctx)
	if err != nil {
		return models.Model_Response{}, err
	}

	modelToUse := request.Model
	if modelToUse == "" {
		modelToUse = g.Model
	}
	if modelToUse == "" {
		modelToUse = DefaultModel
	}

	contents := toGenaiContents(request.Contents)
	if len(contents) == 0 {
		return models.Model_Response{}, fmt.Errorf("cannot create Gemini request with no content")
	}

	config := &genai.GenerateContentConfig{}
	if request.System_Instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(request.System_Instruction, genai.RoleUser)
	}
	if len(request.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: toGenaiDeclarations(request.Tools)}}
	}

	g.Logger.Debug().Str("model", modelToUse).Int("contents", len(contents)).Int("tools", len(request.Tools)).Msg("gemini request")

	resp, err := gen.GenerateContent(ctx, modelToUse, contents, config)
	if err != nil {
		g.Logger.Error().Err(err).Str("model", modelToUse).Msg("gemini request failed")
		return models.Model_Response{}, fmt.Errorf("gemini generate content: %w", err)
	}
	return fromGenaiResponse(resp), nil
}

func (g *Gemini_Model) contentGenerator(ctx context.Context) (contentGenerator, error) {
	if g.generator != nil {
		return g.generator, nil
	}
	c, err := sharedClient(ctx, g.Credential)
	if err != nil {
		return nil, err
	}
	return c.Models, nil
}
