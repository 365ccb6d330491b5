package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
)

// Format is a manifest serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var formatsByExt = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// ParseFormat returns the format with the given name. "yml" is accepted as
// an alias of "yaml".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported manifest format %q", s)
}

// DetectFormat picks the format from the file extension of path.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported manifest: %s", filepath.Base(path))
}

// IsManifest reports whether path has a manifest file extension.
func IsManifest(path string) bool {
	_, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DecodeManifest decodes a manifest in the given format.
//
// Unknown keys are rejected in every format so that a misspelled ordering
// hint does not silently disappear. All decode failures carry
// ErrCodeInvalidManifest.
func DecodeManifest(data []byte, f Format) (*Manifest, error) {
	return decode(data, f, "manifest")
}

func decode(data []byte, f Format, src string) (*Manifest, error) {
	var m Manifest
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", src)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "decode %s: empty document", src)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", src)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", src)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "decode %s: unknown key %s", src, undecoded[0])
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported manifest format %q", f)
	}
	return &m, nil
}

// ReadManifest decodes a manifest from r. ReadManifest does not close r.
func ReadManifest(r io.Reader, f Format) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest")
	}
	return DecodeManifest(data, f)
}

// ImportManifest reads the manifest file at path, choosing the format from
// its extension.
func ImportManifest(path string) (*Manifest, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return decode(data, f, path)
}
