package evaluation

const (
	DefaultMaxExpansionTerms = 32
	DefaultResultLimit       = 10
	MaxResultLimit           = 50
)

type GuardrailConfig struct {
	MaxExpansionTerms int
	DefaultLimit      int
	MaxLimit          int
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MaxExpansionTerms <= 0 {
		config.MaxExpansionTerms = DefaultMaxExpansionTerms
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = DefaultResultLimit
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = MaxResultLimit
	}
	return &Guardrails{config: config}
}

func (g *Guardrails) LimitExpansion(terms []string) []string {
	if len(terms) > g.config.MaxExpansionTerms {
		return terms[:g.config.MaxExpansionTerms]
	}
	return terms
}

// ClampLimit maps a caller-supplied result count into [1, MaxLimit];
// non-positive values mean the default.
func (g *Guardrails) ClampLimit(limit int) int {
	if limit <= 0 {
		return g.config.DefaultLimit
	}
	if limit > g.config.MaxLimit {
		return g.config.MaxLimit
	}
	return limit
}
