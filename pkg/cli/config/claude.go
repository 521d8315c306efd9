package config

import "github.com/urfave/cli/v3"

// Claude holds Anthropic Claude LLM configuration
type Claude struct {
	APIKey string
	Model  string
}

// Flags returns CLI flags for Claude configuration
func (c *Claude) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Required:    true,
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Claude model to use",
			Value:       "claude-sonnet-4-5-20250929",
			Destination: &c.Model,
			Sources:     cli.EnvVars("ISSUERIZER_MODEL"),
		},
	}
}
