// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Annotation is one annotator's judgment of one task, parsed from a
// Label Studio export.
type Annotation struct {
	// TaskID references the annotated Record's ID.
	TaskID string `json:"task_id" yaml:"task_id"`

	// Text is the annotated comment text, carried for adjudication output.
	Text string `json:"text" yaml:"text"`

	// Annotator is the Label Studio username.
	Annotator string `json:"annotator" yaml:"annotator"`

	// Label is the binary toxicity judgment. Nil when the annotator left
	// the choice blank.
	Label *int `json:"label,omitempty" yaml:"label,omitempty"`

	// Subtypes lists toxicity subtype choices (hate, insult, threat, ...).
	Subtypes []string `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`

	// Confidence is the annotator's self-reported confidence choice.
	Confidence string `json:"confidence,omitempty" yaml:"confidence,omitempty"`

	// Notes is free-text annotator commentary.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PairKappa is Cohen's kappa for one annotator pair.
type PairKappa struct {
	AnnotatorA string  `json:"annotator_a" yaml:"annotator_a"`
	AnnotatorB string  `json:"annotator_b" yaml:"annotator_b"`
	Items      int     `json:"items" yaml:"items"`
	Kappa      float64 `json:"kappa" yaml:"kappa"`
	Agreement  float64 `json:"agreement" yaml:"agreement"`
}

// IAAReport summarizes inter-annotator agreement over an export.
type IAAReport struct {
	Tasks          int         `json:"tasks" yaml:"tasks"`
	MultiAnnotated int         `json:"multi_annotated" yaml:"multi_annotated"`
	Pairs          []PairKappa `json:"pairs" yaml:"pairs"`
	MeanKappa      float64     `json:"mean_kappa" yaml:"mean_kappa"`
	Interpretation string      `json:"interpretation" yaml:"interpretation"`
	Disagreements  []string    `json:"disagreements" yaml:"disagreements"`
}

// SplitManifest records how a stratified split was produced, so the split
// can be reproduced and audited.
type SplitManifest struct {
	Seed      int64                     `json:"seed" yaml:"seed"`
	TrainFrac float64                   `json:"train_frac" yaml:"train_frac"`
	DevFrac   float64                   `json:"dev_frac" yaml:"dev_frac"`
	TestFrac  float64                   `json:"test_frac" yaml:"test_frac"`
	CreatedAt string                    `json:"created_at" yaml:"created_at"`
	Sizes     map[string]int            `json:"sizes" yaml:"sizes"`
	Labels    map[string]map[string]int `json:"labels" yaml:"labels"`
	Languages map[string]map[string]int `json:"languages" yaml:"languages"`
	StratKeys map[string]int            `json:"strat_keys" yaml:"strat_keys"`
}
