package gemini

import (
	"strings"

	"github.com/Desarso/nexus/models"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGenaiContents converts history turns into Gemini contents. Empty text
// parts are dropped and turns left without parts are skipped, since the API
// rejects both.
func toGenaiContents(turns []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			if gp := toGenaiPart(p); gp != nil {
				parts = append(parts, gp)
			}
		}
		if len(parts) == 0 {
			continue
		}
		role := turn.Role
		if role != models.RoleModel {
			role = models.RoleUser
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents
}

func toGenaiPart(p models.Part) *genai.Part {
	switch {
	case p.FunctionCall != nil:
		return &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			},
			ThoughtSignature: p.ThoughtSignature,
		}
	case p.FunctionResponse != nil:
		return &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       p.FunctionResponse.ID,
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			},
		}
	case p.Text != "":
		return &genai.Part{Text: p.Text, Thought: p.Thought, ThoughtSignature: p.ThoughtSignature}
	}
	return nil
}

func toGenaiDeclarations(decls []models.FunctionDeclaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toGenaiSchema(d.Parameters),
		})
	}
	return out
}

func toGenaiSchema(params models.Parameters) *genai.Schema {
	schema := &genai.Schema{
		Type:       schemaType(params.Type),
		Properties: make(map[string]*genai.Schema, len(params.Properties)),
		Required:   params.Required,
	}
	if schema.Type == "" {
		schema.Type = genai.TypeObject
	}
	for name, prop := range params.Properties {
		schema.Properties[name] = &genai.Schema{
			Type:        schemaType(prop.Type),
			Description: prop.Description,
			Enum:        prop.Enum,
		}
	}
	return schema
}

func schemaType(t string) genai.Type {
	if t == "" {
		return genai.TypeUnspecified
	}
	return genai.Type(strings.ToUpper(t))
}

// fromGenaiResponse keeps every candidate and every part in order. Calls
// that arrive without an id get one so results can still be correlated.
func fromGenaiResponse(resp *genai.GenerateContentResponse) models.Model_Response {
	out := models.Model_Response{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		c := models.Candidate{FinishReason: string(cand.FinishReason)}
		if cand.Content != nil {
			for _, p := range cand.Content.Parts {
				if p == nil {
					continue
				}
				part := models.Part{
					Text:             p.Text,
					Thought:          p.Thought,
					ThoughtSignature: p.ThoughtSignature,
				}
				if p.FunctionCall != nil {
					id := p.FunctionCall.ID
					if id == "" {
						id = uuid.New().String()
					}
					part.FunctionCall = &models.FunctionCall{
						ID:   id,
						Name: p.FunctionCall.Name,
						Args: p.FunctionCall.Args,
					}
				}
				c.Parts = append(c.Parts, part)
			}
		}
		out.Candidates = append(out.Candidates, c)
	}
	return out
}
