// Package dropdown implements a headless disclosure (menu button).
//
// A [Dropdown] root owns the state: whether it is open, which option is
// active, and the position solver that anchors the panel to the trigger. The
// parts a caller arranges are created from the root and keep a pointer back
// to it:
//
//   - [Trigger] toggles the panel and anchors it
//   - [Panel] is the floating menu, absent from the document while closed
//   - [Option] is a selectable row whose content can react to being active
//
// # Controlled and uncontrolled
//
// The mode is decided once, in [New]. With Options.Open set, the caller owns
// the open value: every request ([Dropdown.SetOpen]) is forwarded to
// OnOpenChange and the displayed state changes only through
// [Dropdown.SyncOpen]. Without it, the dropdown keeps its own boolean seeded
// from DefaultOpen. Trigger clicks, option selection, outside pointer-down and
// Escape all call SetOpen, so the two modes never diverge in the parts.
//
// # Lifecycle
//
// Opening mounts the panel node and acquires the while-open resources: an
// outside pointer-down listener on the document, keyboard handling on the
// dropdown node, and the solver's auto-update. Closing or [Dropdown.Unmount]
// releases all of them before returning.
//
// # Rendering
//
// Rendering follows a render-then-measure cycle. The caller renders the
// trigger inline, reports where it landed with [Trigger.Place], then calls
// [Dropdown.Overlay] on the finished page to composite the panel at its
// solved position.
package dropdown
