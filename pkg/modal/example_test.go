package modal_test

import (
	"fmt"

	"github.com/matzehuels/sysdesign/pkg/dom"
	"github.com/matzehuels/sysdesign/pkg/modal"
	"github.com/matzehuels/sysdesign/pkg/view"
)

func ExampleModal() {
	doc := dom.New(80, 24)
	open := false

	var m *modal.Modal
	props := func() modal.Props {
		return modal.Props{
			Open:    open,
			OnClose: func() { open = false; m.Update(modal.Props{Open: open}) },
		}
	}
	m = modal.New(doc, props())
	_, _ = m.NewBackdrop()
	_, _ = m.NewHeader(view.Text("System Design Modal"))
	footer, _ := m.NewFooter(nil)
	footer.AddAction(view.Text("Cancel"), func() { fmt.Println("cancelled") })

	open = true
	m.Update(props())
	fmt.Println("visible:", m.Visible(), "focused:", doc.ActiveElement().Role)

	doc.KeyDown(dom.KeyEscape)
	fmt.Println("visible:", m.Visible())
	// Output:
	// visible: true focused: button
	// visible: false
}
