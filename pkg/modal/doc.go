// Package modal implements a headless dialog.
//
// A [Modal] is fully controlled: the caller supplies [Props] on every render
// with [Modal.Update] and the modal never changes Open on its own. Every
// dismissal path (Escape, interaction outside the dialog, a click on the
// [Backdrop]) calls Props.OnClose and leaves the decision to the caller.
//
// While open, the dialog node is portaled under the document body (or the
// mount point given with [WithMountPoint]) and holds four resources: a scroll
// lock, a focus trap, a document keydown listener and document pointer-down
// and touch-start listeners. Closing or [Modal.Unmount] releases all of them
// before returning, and the focus trap hands focus back to the element that
// had it before the dialog opened.
//
// Dialogs stack per document. Only the most recently opened dialog reacts to
// Escape and outside interaction, and the scroll lock is held until the last
// one closes.
//
// Sections ([Modal.NewHeader], [Modal.NewContent], [Modal.NewFooter]) are
// structural. They stop pointer and click events at their boundary, so
// nothing inside them dismisses the dialog.
package modal
