package ai

// ModelFile is the on-disk form of the priority classifier: a multinomial
// naive Bayes model over lowercased word tokens.
type ModelFile struct {
	// Labels are the classes in tie-break order.
	Labels []string `json:"labels"`

	// LogPriors holds log P(label), keyed by label.
	LogPriors map[string]float64 `json:"log_priors"`

	// LogLikelihoods holds log P(token | label), keyed by label then token.
	LogLikelihoods map[string]map[string]float64 `json:"log_likelihoods"`

	// UnknownLogProb is log P(token | label) for tokens missing from the
	// vocabulary of that label.
	UnknownLogProb map[string]float64 `json:"unknown_log_prob"`
}
