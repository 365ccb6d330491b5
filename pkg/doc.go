// Package pkg provides the libraries behind fragorder, which computes the load
// order of the web fragments of a module.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [fragment] - The ordering engine (pure, no I/O)
//  2. [io] - Manifest decoding (JSON, YAML, TOML) and JSON export
//  3. [pipeline] - Orchestration (decode, order, cache, render)
//  4. [cache] - Result caches (file, Redis, in-flight deduplication)
//  5. [render/nodelink] - Constraint graph rendering (DOT, SVG)
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
//	Manifest (json/yaml/toml)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [fragment] package (select mode, assign names, order)
//	         ↓
//	    [pipeline] package (cache + hooks)
//	         ↓
//	    Result JSON / DOT / SVG
//
// # Quick Start
//
//	in := fragment.Input{
//	    Module: "shop.war",
//	    Candidates: []fragment.Candidate{
//	        {Locator: "WEB-INF/classes", ClassesRoot: true},
//	        {Locator: "audit.jar", Name: "audit", After: []string{"security"}},
//	        {Locator: "security.jar", Name: "security", BeforeOthers: true},
//	    },
//	}
//	res, err := fragment.Order(in)
//
// Ordering failures carry an error code from [errors] and, for cycles and
// others-classification conflicts, a typed cause naming the fragments
// involved.
//
// [fragment]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/fragment
// [io]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/errors
// [observability]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/OpenLiberty/open-liberty-sub391/pkg/buildinfo
package pkg
