package types

// Authority 可引用的法规或判例，按条款类别检索
type Authority struct {
	ID           string `json:"id" yaml:"id"`
	Category     string `json:"category" yaml:"category"`
	Jurisdiction string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	Summary      string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Reference    `yaml:",inline"`
}
