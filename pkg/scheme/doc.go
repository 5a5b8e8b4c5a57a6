// Package scheme models a scheme document: document-level appearance, the
// ordered list of positioned components, and the named images they use.
//
// # Components
//
// Each component carries a type tag (e.g. [TypeDynamicText]) and one typed
// property structure for its kind. Property bags read from JSON, TOML or YAML
// are decoded with mapstructure into:
//
//   - [StaticTextProps] and [DynamicTextProps]
//   - [StaticPictureProps] and [DynamicPictureProps]
//
// Additional kinds are added with [Kinds.Register]; a component whose tag is
// not registered keeps nil Props and is skipped by the renderers.
//
// # Colors
//
// [Color] distinguishes "unset" from any configured value. The reserved value
// [StatusColor] means "derive from the bound channel's status".
//
// # Loading
//
//	doc, issues, err := scheme.Load("boiler.json", scheme.DefaultKinds())
//	for _, is := range issues {
//	    logger.Warn("component skipped", "id", is.ComponentID, "reason", is.Reason)
//	}
package scheme
