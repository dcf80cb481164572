package modal

import (
	"slices"

	"github.com/matzehuels/sysdesign/pkg/dom"
)

type stackKey struct{}

// stack orders the open dialogs of one document. Only the topmost dialog
// reacts to Escape and outside interaction.
type stack struct {
	modals []*Modal
}

func stackFor(doc *dom.Document) *stack {
	return doc.Shared(stackKey{}, func() any { return &stack{} }).(*stack)
}

func (s *stack) push(m *Modal) { s.modals = append(s.modals, m) }

func (s *stack) remove(m *Modal) {
	if i := slices.Index(s.modals, m); i >= 0 {
		s.modals = slices.Delete(s.modals, i, i+1)
	}
}

func (s *stack) top() *Modal {
	if len(s.modals) == 0 {
		return nil
	}
	return s.modals[len(s.modals)-1]
}

// Open returns the number of mounted dialogs in doc.
func Open(doc *dom.Document) int {
	if doc == nil {
		return 0
	}
	return len(stackFor(doc).modals)
}

// Top reports whether m is the topmost mounted dialog of its document.
func (m *Modal) Top() bool {
	return m != nil && m.mounted && stackFor(m.doc).top() == m
}
