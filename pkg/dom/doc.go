// Package dom is a small headless document model for terminal overlays.
//
// Overlay widgets need the same few things a browser document gives them:
// a tree of elements with geometry, document-level listeners that can be
// installed and removed, event propagation that can be stopped, a focused
// element, and a body style that can be locked. This package provides exactly
// that and nothing more. It does no rendering; bounds are supplied by the
// caller after it lays out its view (render, then measure).
//
// # Events
//
// [Document.Dispatch] delivers an event to its target, then to each logical
// ancestor, then to document listeners. A node's logical parent is its owner
// when one is set (portaled subtrees), otherwise its DOM parent. This keeps
// propagation faithful to the component tree even when a subtree is mounted
// somewhere else.
//
// Listener lists are snapshotted per dispatch. A [Subscription] released while
// an event is in flight does not fire for that event.
//
// # Input
//
// The input helpers ([Document.PointerDown], [Document.Click],
// [Document.PointerMove], [Document.KeyDown], ...) translate raw input into
// dispatched events and run the default actions a browser would: Tab moves
// focus, Enter and Space activate the focused element, pressing a pointer
// focuses the nearest focusable ancestor.
//
// # Threading
//
// A Document is not safe for concurrent use. All calls happen on the UI loop.
package dom
