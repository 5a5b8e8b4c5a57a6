// Package pkg provides the libraries behind schemeview.
//
// # Overview
//
// Schemeview displays mnemonic schemes of a SCADA system: a document of
// absolutely positioned components (static and dynamic text and pictures)
// whose appearance follows live channel data. The pkg directory is
// organized into these areas:
//
//  1. [scheme] - The document model and its JSON, TOML and YAML loaders
//  2. [render] - Renderers turning components into styled nodes
//  3. [render/sink] - The style sink nodes are written through, with the
//     [render/sink/dom] implementation that serializes to HTML
//  4. [telemetry] - Channel data snapshots and their sources (file, redis, http)
//  5. [view] - A live display session: render once, refresh per tick,
//     dispatch pointer events, reload on change
//  6. [server] - HTTP and websocket front end pushing patches to browsers
//
// Supporting packages: [config] (TOML configuration), [cache] (rendered
// page cache), [httputil] (JSON client with retries), [errors] (coded
// errors), [observability] (hooks) and [buildinfo].
//
// # Data Flow
//
//	scheme document ──► SchemeRenderer.CreateDom ──► dom.Surface
//	telemetry.Source ──► Snapshot ──► Renderer.Update per component
//	pointer events   ──► node handlers ──► dialogs (chart, command)
//	dom.Surface      ──► patches ──► browsers
//
// A [view.Session] owns one surface. Everything that touches it runs on the
// session loop, so renderers need no locking.
package pkg
