package questiongen

import "google.golang.org/genai"

// Структуры запроса generateContent REST API

type generateContentRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature"`
	TopK             float32 `json:"topK"`
	TopP             float32 `json:"topP"`
	MaxOutputTokens  int32   `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type safetySetting struct {
	Category  genai.HarmCategory       `json:"category"`
	Threshold genai.HarmBlockThreshold `json:"threshold"`
}

// Конверт ответа. Указатели и срезы позволяют отличить отсутствующее поле от пустого.

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      *content           `json:"content"`
	FinishReason genai.FinishReason `json:"finishReason"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type part struct {
	Text *string `json:"text"`
}

func newGenerateContentRequest(cfg Config, prompt string) generateContentRequest {
	settings := make([]safetySetting, 0, len(cfg.SafetySettings))
	for _, s := range cfg.SafetySettings {
		settings = append(settings, safetySetting{Category: s.Category, Threshold: s.Threshold})
	}
	return generateContentRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      cfg.Temperature,
			TopK:             cfg.TopK,
			TopP:             cfg.TopP,
			MaxOutputTokens:  cfg.MaxOutputTokens,
			ResponseMIMEType: cfg.ResponseMIMEType,
		},
		SafetySettings: settings,
	}
}
