// Package gatekeeper provides a pluggable authentication policy engine:
// signup and login semantics, password policy enforcement, access token
// issuance and validation, plus lifecycle hooks for downstream workflows.
//
// Persistence is delegated to an injected StorageAdapter so the engine can
// sit on top of any backend (bun, pgx, in-memory) that satisfies the four
// adapter operations and the id normalization rule. Cryptographic primitives
// are capability interfaces: any PasswordAuthenticator and TokenService pair
// can be swapped in without touching the engine.
//
// Core lifecycle:
//   - Build a Core with New, passing the merged Config, an adapter, and the
//     signing secret. Register hooks and controller overrides during startup;
//     the registries are effectively read-only once traffic begins.
//   - Hooks (beforeRegister, afterRegister, beforeLogin, afterLogin) run
//     sequentially in registration order. A failing hook never aborts the
//     signup or login pipeline.
//   - AccessGuard derives an authenticated identity from inbound requests
//     (bearer token or host-managed session) and enforces role membership,
//     producing go-router middleware for any supported transport.
package gatekeeper
