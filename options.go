package commentdex

// Option configures a Translator.
type Option func(*translatorConfig)

type translatorConfig struct {
	maxResultWindow int
	fields          []string
	phraseBoost     float64
	termBoost       float64
	fuzziness       int
}

// WithMaxResultWindow caps the page size used when a request names none.
func WithMaxResultWindow(n int) Option {
	return func(c *translatorConfig) {
		c.maxResultWindow = n
	}
}

// WithSearchFields replaces the fields the relevance cascade searches.
func WithSearchFields(fields []string) Option {
	return func(c *translatorConfig) {
		c.fields = fields
	}
}

// WithPhraseBoost sets the boost of the phrase tier.
func WithPhraseBoost(boost float64) Option {
	return func(c *translatorConfig) {
		c.phraseBoost = boost
	}
}

// WithTermBoost sets the boost of the cross-field term tier.
func WithTermBoost(boost float64) Option {
	return func(c *translatorConfig) {
		c.termBoost = boost
	}
}

// WithFuzziness sets the edit distance of the fuzzy tier.
func WithFuzziness(fuzziness int) Option {
	return func(c *translatorConfig) {
		c.fuzziness = fuzziness
	}
}
