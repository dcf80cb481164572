// Package pkg provides the reusable libraries behind sysdesign: headless
// overlay primitives for terminal UIs and the plumbing around them.
//
// # Overview
//
// The primitives own behavior, never appearance. A caller supplies content
// and lipgloss styles; the primitives own open state, positioning, focus,
// dismissal and listener lifetimes. The pkg directory is organized into three
// areas:
//
//  1. [dom] - A headless document: nodes, events, focus, hit testing
//  2. Primitives - [dropdown], [modal] and the pieces they share
//     ([position], [focus], [scrolllock], [view])
//  3. Infrastructure - [cache], [httputil], [search], [observability],
//     [errors], [toc]
//
// # Architecture
//
// A frame in a host application flows like this:
//
//	terminal input (bubbletea)
//	         ↓
//	    [dom] Document (PointerDown, Click, KeyDown, ScrollBy)
//	         ↓
//	    listeners on dropdown / modal nodes (state changes)
//	         ↓
//	    render + Place (bounds recorded on nodes)
//	         ↓
//	    Overlay / View (panels and dialogs composited over the page)
//
// # Quick Start
//
// An uncontrolled dropdown:
//
//	doc := dom.New(80, 24)
//	d, _ := dropdown.New(doc, dropdown.Options{})
//	trigger, _ := d.NewTrigger(view.Text("Services"))
//	_, _ = d.NewPanel()
//	_, _ = d.NewOption(view.Text("iCloud"), func() { fmt.Println("iCloud") })
//
//	trigger.Place(0, 0)
//	frame := d.Overlay(trigger.Render())
//
// A controlled modal; the caller owns the open flag:
//
//	var m *modal.Modal
//	m = modal.New(doc, modal.Props{Open: true, OnClose: func() {
//	    m.Update(modal.Props{Open: false})
//	}})
//	_, _ = m.NewBackdrop()
//	_, _ = m.NewHeader(view.Text("Confirm"))
//	frame = m.View(frame)
//
// # Main Packages
//
// ## Headless document
//
// [dom] - Nodes with attributes, bounds and listeners. Events propagate along
// logical ancestors, so a portalled subtree still bubbles to its owner.
// Pointer-down focuses, Tab moves focus, Enter and Space click.
//
// ## Primitives
//
// [dropdown] - Dropdown, Trigger, Panel and Option. Controlled when
// Options.Open is set, uncontrolled otherwise. The panel is portalled to the
// body and positioned by [position] on every layout.
//
// [modal] - Modal, Backdrop and Section. Always controlled. While open it
// holds a [scrolllock] lease and a [focus] trap and dismisses on Escape or an
// outside press. Open dialogs stack per document.
//
// [position] - Placement solver: anchor below or above a reference, flip when
// the preferred side overflows, shift to stay inside the viewport.
//
// [focus] - Tab cycling trap with initial focus and focus return.
//
// [scrolllock] - Reference-counted body overflow lock.
//
// [view] - Content values and ANSI-aware overlay compositing.
//
// ## Infrastructure
//
// [cache] - Byte caches (null, memory, file, Redis) and key derivation.
//
// [httputil] - JSON cache views and retry with backoff.
//
// [search] - Location model, stores (memory, MongoDB), chi handler, HTTP
// client and the de-duplicating Lookup used by the autocomplete.
//
// [observability] - Hook registry; libraries emit, binaries log.
//
// [errors] - Coded errors and input validation.
//
// [toc] - Table of contents with scroll spy.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/dropdown/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [dom]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/dom
// [dropdown]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/dropdown
// [modal]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/modal
// [position]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/position
// [focus]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/focus
// [scrolllock]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/scrolllock
// [view]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/view
// [cache]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/httputil
// [search]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/search
// [observability]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/errors
// [toc]: https://pkg.go.dev/github.com/matzehuels/sysdesign/pkg/toc
package pkg
