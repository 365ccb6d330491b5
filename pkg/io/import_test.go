package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
)

func shopInput() fragment.Input {
	return fragment.Input{
		Module: "shop.war",
		Candidates: []fragment.Candidate{
			{Locator: "WEB-INF/classes", ClassesRoot: true},
			{Locator: "WEB-INF/lib/util.jar"},
			{Locator: "WEB-INF/lib/security.jar", Name: "security", BeforeOthers: true},
			{Locator: "WEB-INF/lib/audit.jar", Name: "audit", After: []string{"security"}},
			{Locator: "WEB-INF/lib/metrics.jar", Name: "metrics", MetadataComplete: true, AfterOthers: true},
		},
	}
}

func TestImportManifest_Formats(t *testing.T) {
	for _, name := range []string{"shop.toml", "shop.json", "shop.yaml"} {
		t.Run(name, func(t *testing.T) {
			m, err := ImportManifest(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("ImportManifest() error: %v", err)
			}
			in, err := m.Input()
			if err != nil {
				t.Fatalf("Input() error: %v", err)
			}
			if diff := cmp.Diff(shopInput(), in); diff != "" {
				t.Errorf("Input() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportManifest_AbsoluteElements(t *testing.T) {
	m, err := ImportManifest(filepath.Join("testdata", "absolute.yaml"))
	if err != nil {
		t.Fatalf("ImportManifest() error: %v", err)
	}
	in, err := m.Input()
	if err != nil {
		t.Fatalf("Input() error: %v", err)
	}

	want := &fragment.AbsoluteOrdering{BeforeOthers: []string{"A"}, AfterOthers: []string{"B"}, Others: true}
	if diff := cmp.Diff(want, in.Absolute); diff != "" {
		t.Errorf("Absolute mismatch (-want +got):\n%s", diff)
	}
	if in.Compat != fragment.CompatLegacy {
		t.Errorf("Compat = %v, want legacy", in.Compat)
	}

	res, err := fragment.Order(in)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	var got []string
	for _, f := range res.Ordered {
		got = append(got, f.Name)
	}
	if diff := cmp.Diff([]string{"A", "C", "D", "B"}, got); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
}

func TestImportManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing file", filepath.Join("testdata", "nope.json"), errors.ErrCodeFileNotFound},
		{"unknown extension", filepath.Join("testdata", "shop.xml"), errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportManifest(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("ImportManifest() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestDecodeManifest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json syntax", FormatJSON, `{"entries": [`},
		{"json unknown key", FormatJSON, `{"entries": [{"locator": "a.jar", "befor": ["b"]}]}`},
		{"yaml unknown key", FormatYAML, "entries:\n  - locator: a.jar\n    ordering: {}\n"},
		{"yaml empty", FormatYAML, ""},
		{"toml syntax", FormatTOML, "name = "},
		{"toml unknown key", FormatTOML, "name = \"m\"\nabsolute = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeManifest([]byte(tt.data), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("DecodeManifest() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestManifestInput_Invalid(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
	}{
		{"missing locator", Manifest{Entries: []Entry{{}}}},
		{"root with descriptor", Manifest{Entries: []Entry{{Locator: "classes", ClassesRoot: true, Descriptor: &Descriptor{Name: "x"}}}}},
		{"empty element", Manifest{AbsoluteOrdering: &AbsoluteSpec{Elements: []Element{{}}}}},
		{"element with both", Manifest{AbsoluteOrdering: &AbsoluteSpec{Elements: []Element{{Name: "A", Others: true}}}}},
		{"mixed forms", Manifest{AbsoluteOrdering: &AbsoluteSpec{Others: true, Elements: []Element{{Name: "A"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.Input()
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("Input() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestManifestInput_DefaultModule(t *testing.T) {
	m := Manifest{AbsoluteOrdering: &AbsoluteSpec{}}
	in, err := m.Input()
	if err != nil {
		t.Fatalf("Input() error: %v", err)
	}
	if in.Module != "module" {
		t.Errorf("Module = %q, want module", in.Module)
	}
	if in.Absolute == nil {
		t.Error("an empty absolute ordering should still be present")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"YAML", FormatYAML, true},
		{"yml", FormatYAML, true},
		{" toml ", FormatTOML, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q (ok=%v)", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"m.json":        FormatJSON,
		"dir/m.YML":     FormatYAML,
		"m.yaml":        FormatYAML,
		"/abs/app.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v, want %q", path, got, err, want)
		}
		if !IsManifest(path) {
			t.Errorf("IsManifest(%q) = false", path)
		}
	}
	if IsManifest("README.md") {
		t.Error("IsManifest(README.md) = true")
	}
}

func TestReadManifest(t *testing.T) {
	r := strings.NewReader(`{"name": "m", "entries": [{"locator": "a.jar"}]}`)
	m, err := ReadManifest(r, FormatJSON)
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if m.Name != "m" || len(m.Entries) != 1 {
		t.Errorf("ReadManifest() = %+v", m)
	}
}

func TestWriteJSON(t *testing.T) {
	res, err := fragment.Order(shopInput())
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(res, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"mode": "relative"`, `"class": "before-others"`, `"locator": "WEB-INF/lib/util.jar"`} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteJSON() output missing %s", want)
		}
	}
}

func TestExportJSON(t *testing.T) {
	m, err := ImportManifest(filepath.Join("testdata", "shop.yaml"))
	if err != nil {
		t.Fatalf("ImportManifest() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "shop.json")
	if err := ExportJSON(m, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	back, err := ImportManifest(path)
	if err != nil {
		t.Fatalf("re-reading export: %v", err)
	}
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("exported manifest mismatch (-want +got):\n%s", diff)
	}
}
