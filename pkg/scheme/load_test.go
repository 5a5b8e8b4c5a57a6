package scheme

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/schemeview/pkg/errors"
)

func TestLoadJSON(t *testing.T) {
	doc, issues, err := Load(filepath.Join("testdata", "boiler.json"), DefaultKinds())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if doc.Props.Title != "Boiler" {
		t.Errorf("Title = %q, want Boiler", doc.Props.Title)
	}
	if doc.Props.Size.Width != 800 || doc.Props.Size.Height != 600 {
		t.Errorf("Size = %+v, want 800x600", doc.Props.Size)
	}
	if doc.Props.Font == nil || doc.Props.Font.Name != "Arial" {
		t.Errorf("Font = %+v, want Arial", doc.Props.Font)
	}
	if len(doc.Components) != 6 {
		t.Fatalf("Components = %d, want 6", len(doc.Components))
	}

	// unknown type, negative size, duplicate image, bad media type
	if len(issues) != 4 {
		t.Errorf("issues = %v, want 4", issues)
	}

	img := doc.Images.Get("hi.png")
	if img == nil || string(img.Data) != "hi" {
		t.Errorf("Images[hi.png] = %+v, want decoded data", img)
	}
	if doc.Images.Get("bad.png") != nil {
		t.Error("image with invalid media type should be skipped")
	}

	text, ok := doc.Components[1].Props.(*DynamicTextProps)
	if !ok {
		t.Fatalf("component 2 props = %T, want *DynamicTextProps", doc.Components[1].Props)
	}
	if !text.ForeColor.IsStatus() {
		t.Errorf("ForeColor = %v, want Status", text.ForeColor)
	}
	if text.BackColor.IsSet() {
		t.Errorf("BackColor = %v, want unset", text.BackColor)
	}
	if text.BorderColorOnHover.Value() != "#00ff00" {
		t.Errorf("BorderColorOnHover = %v, want #00ff00", text.BorderColorOnHover)
	}
	if text.Location.X != 120 || text.InCnlNum != 101 || text.Action != ActionDrawDiagram {
		t.Errorf("props = %+v, want location 120, channel 101, DrawDiagram", text)
	}

	pic, ok := doc.Components[2].Props.(*DynamicPictureProps)
	if !ok {
		t.Fatalf("component 3 props = %T, want *DynamicPictureProps", doc.Components[2].Props)
	}
	if len(pic.Conditions) != 2 || pic.Conditions[0].CompareOperator1 != OpGreaterThan {
		t.Errorf("Conditions = %+v, want two with > first", pic.Conditions)
	}

	if doc.Components[3].Props != nil {
		t.Error("unknown type should have nil props")
	}
	if doc.Components[4].Props != nil {
		t.Error("malformed props should be nil")
	}

	if got := doc.InputChannels(); len(got) != 2 || got[0] != 101 || got[1] != 102 {
		t.Errorf("InputChannels() = %v, want [101 102]", got)
	}
}

func TestLoadTOML(t *testing.T) {
	doc, issues, err := Load(filepath.Join("testdata", "boiler.toml"), nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}

	pic, ok := doc.Components[0].Props.(*StaticPictureProps)
	if !ok {
		t.Fatalf("props = %T, want *StaticPictureProps", doc.Components[0].Props)
	}
	if pic.ImageStretch != StretchFill || pic.Size.Width != 32 || !pic.BorderColor.IsStatus() {
		t.Errorf("props = %+v", pic)
	}
	if doc.Images.Get("pump.png") == nil {
		t.Error("pump.png should be loaded")
	}
}

func TestLoadYAML(t *testing.T) {
	doc, _, err := Load(filepath.Join("testdata", "boiler.yaml"), DefaultKinds())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	text, ok := doc.Components[0].Props.(*DynamicTextProps)
	if !ok {
		t.Fatalf("props = %T, want *DynamicTextProps", doc.Components[0].Props)
	}
	if text.Action != ActionSendCommand || text.CtrlCnlNum != 8 || !text.BackColor.IsStatus() {
		t.Errorf("props = %+v", text)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join("testdata", "missing.json"), nil); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	_, _, err := Parse([]byte(`{"Document": {"Size": {"Width": 0, "Height": 10}}}`), FormatJSON, nil)
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Parse(zero size) error = %v, want INVALID_DOCUMENT", err)
	}

	_, _, err = Parse([]byte(`{`), FormatJSON, nil)
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Parse(bad json) error = %v, want INVALID_DOCUMENT", err)
	}
}

func TestKindsRegister(t *testing.T) {
	kinds := DefaultKinds()
	kinds.Register("Custom.Label", func() Props { return &StaticTextProps{} })

	doc, issues, err := Parse([]byte(`{
		"Document": {"Size": {"Width": 10, "Height": 10}},
		"Components": [{"ID": 1, "TypeName": "Custom.Label", "Text": "hi"}]
	}`), FormatJSON, kinds)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
	if p, ok := doc.Components[0].Props.(*StaticTextProps); !ok || p.Text != "hi" {
		t.Errorf("props = %+v, want custom label", doc.Components[0].Props)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.TOML": FormatTOML,
		"a.yml":  FormatYAML,
		"a.yaml": FormatYAML,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
