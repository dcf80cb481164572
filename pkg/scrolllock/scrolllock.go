// Package scrolllock suspends page scrolling while overlays are open.
//
// The lock is reference counted per document. The first Acquire captures the
// body overflow value and sets it to hidden; the last Release restores the
// captured value exactly. Releasing one handle never unlocks the page while
// another handle is still held.
package scrolllock

import (
	"github.com/matzehuels/sysdesign/pkg/dom"
)

type lockKey struct{}

type lock struct {
	holders  int
	previous string
}

// Handle is one hold on a document's scroll lock.
type Handle struct {
	doc  *dom.Document
	done bool
}

// Acquire locks scrolling on doc. A nil doc yields an inert handle.
func Acquire(doc *dom.Document) *Handle {
	h := &Handle{doc: doc}
	if doc == nil {
		h.done = true
		return h
	}
	l := lockFor(doc)
	if l.holders == 0 {
		l.previous = doc.Style(dom.StyleOverflow)
		doc.SetStyle(dom.StyleOverflow, dom.OverflowHidden)
	}
	l.holders++
	return h
}

// Release drops the hold. The last release restores the captured overflow
// value. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h == nil || h.done {
		return
	}
	h.done = true
	l := lockFor(h.doc)
	l.holders--
	if l.holders == 0 {
		h.doc.SetStyle(dom.StyleOverflow, l.previous)
		l.previous = ""
	}
}

// Held reports whether the handle still holds the lock.
func (h *Handle) Held() bool {
	return h != nil && !h.done
}

// Locked reports whether any handle holds doc's lock.
func Locked(doc *dom.Document) bool {
	return doc != nil && lockFor(doc).holders > 0
}

// Holders returns the number of handles holding doc's lock.
func Holders(doc *dom.Document) int {
	if doc == nil {
		return 0
	}
	return lockFor(doc).holders
}

func lockFor(doc *dom.Document) *lock {
	return doc.Shared(lockKey{}, func() any { return &lock{} }).(*lock)
}
