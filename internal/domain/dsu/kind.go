// internal/domain/dsu/kind.go
package dsu

// Kind identifies which of the two recurring DSU prompts is being handled.
type Kind string

const (
	KindMorning Kind = "morning"
	KindEvening Kind = "evening"
)

// Title returns the capitalized display name ("Morning" / "Evening").
func (k Kind) Title() string {
	switch k {
	case KindMorning:
		return "Morning"
	case KindEvening:
		return "Evening"
	}
	return string(k)
}
