// Package internal contains the core implementation packages for renderstatic.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the renderstatic CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration loading, resolution, and validation
//   - context: Render context resolution from literals, files, and callables
//   - defines: Named value groups rendered as JavaScript object literals
//   - engine: Template engines, loaders, and batch rendering to disk
//   - errors: Error types and collection for render and config failures
//   - jsgen: JavaScript URL reversal code generation from a route tree
//   - loaders: Template discovery across search dirs, app dirs, and memory
//   - logging: Structured logging with levels and component fields
//   - urls: URL pattern parsing, trial reversal, and route tree building
//   - version: Build metadata injected at link time
//   - watcher: File system monitoring with debouncing for watch mode
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - Engine coordinates loaders, backends, and context resolution
//   - The urls package builds the route tree that jsgen walks
//   - Watcher monitors search directories and triggers re-renders
//   - Config feeds every other package through resolved paths and options
//
// For detailed documentation, see the individual package documentation.
package internal
