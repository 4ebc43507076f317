package config

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// CoursePlan segments a whole video into modules (quality over speed)
	CoursePlan string `json:"coursePlan" env:"GEMINI_MODEL_PLAN" envDefault:"gemini-2.5-flash"`

	// Quiz builds a standalone quiz from a video
	Quiz string `json:"quiz" env:"GEMINI_MODEL_QUIZ" envDefault:"gemini-2.5-flash"`

	// Review grades a submitted repository against a project brief
	Review string `json:"review" env:"GEMINI_MODEL_REVIEW" envDefault:"gemini-2.5-flash-lite"`

	// AnswerCheck grades the interview answer (needs to be fast)
	AnswerCheck string `json:"answerCheck" env:"GEMINI_MODEL_CHECK" envDefault:"gemini-2.5-flash-lite"`

	// Resume writes the JSON Resume document
	Resume string `json:"resume" env:"GEMINI_MODEL_RESUME" envDefault:"gemini-2.5-flash"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-" env:"GEMINI_API_KEY"` // Never serialize
	BaseURL   string       `json:"baseUrl" env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs" env:"GEMINI_TIMEOUT_MS" envDefault:"120000"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
