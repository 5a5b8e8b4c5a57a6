package telemetry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/schemeview/pkg/errors"
)

// FileSource reads channel data from a file on every fetch, so edits to the
// file show up on the next tick.
//
// The file holds a list of channels:
//
//	{"Channels": [{"CnlNum": 101, "Val": 21.5, "Stat": 1, "Unit": "°C", "Color": "green"}]}
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path. The format follows the
// extension: .toml, .yaml/.yml, anything else is JSON.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type channelFile struct {
	Channels []CnlDataExt `json:"Channels" toml:"Channels" yaml:"Channels"`
}

// Fetch reads the file and returns the requested channels.
func (s *FileSource) Fetch(ctx context.Context, cnlNums []int) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "channel data %s", s.path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read channel data %s", s.path)
	}

	items, err := parseChannels(data, strings.ToLower(filepath.Ext(s.path)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse channel data %s", s.path)
	}
	for i := range items {
		items[i] = items[i].Complete()
	}
	return NewSnapshot(filter(items, cnlNums)...), nil
}

// Close does nothing for file sources.
func (s *FileSource) Close() error { return nil }

func parseChannels(data []byte, ext string) ([]CnlDataExt, error) {
	var f channelFile
	var err error
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	return f.Channels, err
}

var _ Source = (*FileSource)(nil)
