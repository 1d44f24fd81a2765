// Package ports defines the interfaces (ports) that connect the lifecycle
// controller to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the controller needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [CatalogClient]: Search/spawn/stop/reset/submit against the
//     provisioning API
//   - [AddressResolver]: Local tunnel interface address lookup
//   - [Clock]: Time source and cancellable sleep for the polling loops
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them, which keeps
// the controller testable with fakes and the busy/conflict discrimination
// isolated at the collaborator boundary.
package ports
