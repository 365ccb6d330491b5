// Package io reads module manifests and writes ordering results.
//
// # Overview
//
// A manifest stands in for classpath discovery and descriptor parsing: it
// lists the entries of one module in discovery order, each optionally
// carrying a partial fragment descriptor, plus the module-level ordering
// settings. [Manifest.Input] turns it into the input of fragment.Order.
//
// # Formats
//
// Manifests are accepted as TOML, JSON or YAML. [ImportManifest] picks the
// format from the file extension; [ReadManifest] and [DecodeManifest] take it
// explicitly. The TOML form reads:
//
//	name = "shop.war"
//
//	[absolute_ordering]
//	elements = [{ name = "security" }, { others = true }, { name = "metrics" }]
//
//	[[entries]]
//	locator = "WEB-INF/classes"
//	classes_root = true
//
//	[[entries]]
//	locator = "WEB-INF/lib/security.jar"
//	descriptor = { name = "security", ordering = { before_others = true } }
//
// # Absolute Ordering
//
// The absolute ordering is written either as explicit before_others,
// after_others and others fields or as an elements sequence. In the element
// form, names that precede the first others marker belong before the others
// and all later names after them.
//
// # Errors
//
// Malformed manifests, unknown keys and structural problems are reported
// with ErrCodeInvalidManifest; unknown extensions and formats with
// ErrCodeUnsupported; missing files with ErrCodeFileNotFound.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write any result value as indented JSON.
package io
