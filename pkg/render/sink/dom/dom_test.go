package dom

import (
	"strings"
	"testing"

	"github.com/matzehuels/schemeview/pkg/render/sink"
)

func TestSetCountsOnlyEffectiveChanges(t *testing.T) {
	s := NewSurface(800, 600)
	n := s.NewNode("span", "comp1")
	base := s.Changes()

	n.Set(sink.Color, "red")
	n.Set(sink.Color, "red")
	n.Set(sink.BackgroundColor, "")
	if got := s.Changes() - base; got != 1 {
		t.Errorf("Changes = %d, want 1", got)
	}

	n.Set(sink.Color, "")
	if n.Get(sink.Color) != "" {
		t.Errorf("Get(color) = %q, want empty", n.Get(sink.Color))
	}
	if got := s.Changes() - base; got != 2 {
		t.Errorf("Changes = %d, want 2", got)
	}
}

func TestDispatchTracksHover(t *testing.T) {
	s := NewSurface(800, 600)
	n := s.NewNode("div", "comp2")

	var enters, leaves int
	var hoveredInHandler bool
	n.On(sink.PointerEnter, func() {
		enters++
		hoveredInHandler = n.Hovered()
	})
	n.On(sink.PointerLeave, func() { leaves++ })

	n.Dispatch(sink.PointerEnter)
	n.Dispatch(sink.PointerEnter)
	if enters != 1 {
		t.Errorf("enters = %d, want 1", enters)
	}
	if !hoveredInHandler {
		t.Error("node should be hovered while enter handlers run")
	}

	n.Dispatch(sink.PointerLeave)
	if leaves != 1 || n.Hovered() {
		t.Errorf("leaves = %d, hovered = %v; want 1, false", leaves, n.Hovered())
	}

	if n.Bound(sink.Click) {
		t.Error("Click should not be bound")
	}
	n.Dispatch(sink.Click)
}

func TestFlushReturnsDirtyNodesOnce(t *testing.T) {
	s := NewSurface(800, 600)
	a := s.NewNode("span", "comp1")
	b := s.NewNode("span", "comp2")
	s.Attach(a)
	s.Attach(b)
	s.SetTitle("Boiler - Rapid SCADA")
	s.Flush()

	a.SetText("12.5")
	patches, _, titleChanged := s.Flush()
	if len(patches) != 1 || patches[0].ID != "comp1" || patches[0].Text != "12.5" {
		t.Fatalf("Flush() = %+v, want one patch for comp1", patches)
	}
	if titleChanged {
		t.Error("title should not be reported twice")
	}

	patches, _, _ = s.Flush()
	if len(patches) != 0 {
		t.Errorf("second Flush() = %d patches, want 0", len(patches))
	}
}

func TestWriteHTML(t *testing.T) {
	s := NewSurface(800, 600)
	n := s.NewNode("span", "comp7")
	n.Set(sink.Color, "blue")
	n.Set(sink.Position, "absolute")
	n.SetTitle("Pump <1>")
	inner := s.NewNode("span", "")
	inner.SetText("a & b")
	n.Append(inner)
	s.Attach(n)

	got := s.HTML()
	for _, want := range []string{
		`id="comp7"`,
		`style="color: blue; position: absolute;"`,
		`title="Pump &lt;1&gt;"`,
		`a &amp; b`,
		KeyAttr + `="`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() = %s\nmissing %s", got, want)
		}
	}
}

func TestFindByIDAndReset(t *testing.T) {
	s := NewSurface(800, 600)
	s.Attach(s.NewNode("div", "scheme"))

	if _, ok := s.FindByID("scheme"); !ok {
		t.Fatal("FindByID(scheme) not found")
	}

	s.Reset()
	if _, ok := s.FindByID("scheme"); ok {
		t.Error("Reset should detach nodes")
	}
	if len(s.Body().Children()) != 0 {
		t.Error("body should be empty after Reset")
	}
}
