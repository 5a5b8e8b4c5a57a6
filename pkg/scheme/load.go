package scheme

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/schemeview/pkg/errors"
)

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Kinds maps type tags to constructors of their property structures.
type Kinds map[string]func() Props

// DefaultKinds returns the built-in component kinds.
func DefaultKinds() Kinds {
	return Kinds{
		TypeStaticText:     func() Props { return &StaticTextProps{} },
		TypeDynamicText:    func() Props { return &DynamicTextProps{} },
		TypeStaticPicture:  func() Props { return &StaticPictureProps{} },
		TypeDynamicPicture: func() Props { return &DynamicPictureProps{} },
	}
}

// Register adds or replaces a component kind.
func (k Kinds) Register(typeName string, newProps func() Props) {
	k[typeName] = newProps
}

// Issue describes a part of the document that was skipped while loading.
type Issue struct {
	ComponentID int
	TypeName    string
	Image       string
	Reason      string
}

func (i Issue) String() string {
	if i.Image != "" {
		return fmt.Sprintf("image %q: %s", i.Image, i.Reason)
	}
	return fmt.Sprintf("component %d (%s): %s", i.ComponentID, i.TypeName, i.Reason)
}

// Load reads and parses a document file.
func Load(path string, kinds Kinds) (*Document, []Issue, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scheme %s", path)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scheme %s", path)
	}
	return Parse(data, FormatFromPath(path), kinds)
}

type rawDocument struct {
	Document   map[string]any
	Components []map[string]any
	Images     []map[string]any
}

type rawComponent struct {
	ID       int
	TypeName string
}

// Parse decodes a document. Broken components and images are reported as
// issues and skipped; only an unreadable document is an error.
func Parse(data []byte, format Format, kinds Kinds) (*Document, []Issue, error) {
	if kinds == nil {
		kinds = DefaultKinds()
	}

	tree, err := unmarshal(data, format)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s document", format)
	}

	var raw rawDocument
	if err := decode(tree, &raw); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document structure")
	}

	doc := &Document{Images: make(Images)}
	if err := decode(raw.Document, &doc.Props); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document properties")
	}
	if doc.Props.Size.Width <= 0 || doc.Props.Size.Height <= 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidDocument, "document size must be positive, got %vx%v",
			doc.Props.Size.Width, doc.Props.Size.Height)
	}

	var issues []Issue
	for _, m := range raw.Images {
		img, err := decodeImage(m)
		if err != nil {
			issues = append(issues, Issue{Image: imageName(m), Reason: errors.UserMessage(err)})
			continue
		}
		if _, dup := doc.Images[img.Name]; dup {
			issues = append(issues, Issue{Image: img.Name, Reason: "duplicate image name"})
			continue
		}
		doc.Images[img.Name] = img
	}

	for _, m := range raw.Components {
		comp, issue := decodeComponent(m, kinds)
		if issue != nil {
			issues = append(issues, *issue)
		}
		doc.Components = append(doc.Components, comp)
	}

	return doc, issues, nil
}

func decodeComponent(m map[string]any, kinds Kinds) (*Component, *Issue) {
	var head rawComponent
	_ = decode(m, &head)
	comp := &Component{ID: head.ID, TypeName: head.TypeName}
	fail := func(reason string) (*Component, *Issue) {
		return comp, &Issue{ComponentID: comp.ID, TypeName: comp.TypeName, Reason: reason}
	}

	if err := errors.ValidateComponentID(head.ID); err != nil {
		return fail(errors.UserMessage(err))
	}
	newProps, ok := kinds[head.TypeName]
	if !ok {
		return fail("unknown component type")
	}

	props := newProps()
	if err := decode(m, props); err != nil {
		return fail(err.Error())
	}
	if err := props.Validate(); err != nil {
		return fail(errors.UserMessage(err))
	}
	comp.Props = props
	return comp, nil
}

func decodeImage(m map[string]any) (*Image, error) {
	var img Image
	if err := decode(m, &img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode image")
	}
	if err := errors.ValidateImageName(img.Name); err != nil {
		return nil, err
	}
	if err := errors.ValidateMediaType(img.MediaType); err != nil {
		return nil, err
	}
	return &img, nil
}

func imageName(m map[string]any) string {
	if s, ok := m["Name"].(string); ok && s != "" {
		return s
	}
	return "?"
}

func unmarshal(data []byte, format Format) (map[string]any, error) {
	tree := make(map[string]any)
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	case FormatJSON:
		err = json.Unmarshal(data, &tree)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	return tree, err
}

var (
	colorType    = reflect.TypeOf(Color{})
	bytesType    = reflect.TypeOf([]byte(nil))
	operatorType = reflect.TypeOf(CompareOperator(""))
	logicType    = reflect.TypeOf(LogicalOperator(""))
)

// decodeHook converts the string forms used in documents into typed values.
func decodeHook(from, to reflect.Type, data any) (any, error) {
	s, isString := data.(string)
	if !isString {
		return data, nil
	}
	switch to {
	case colorType:
		return ColorOf(s), nil
	case bytesType:
		return base64.StdEncoding.DecodeString(s)
	case operatorType:
		return ParseCompareOperator(s), nil
	case logicType:
		return ParseLogicalOperator(s), nil
	}
	return data, nil
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(decodeHook),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
