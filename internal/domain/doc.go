// Package domain contains the core domain model for dmkit.
//
// The domain is codec- and transport-agnostic: it does not depend on the binary
// model format, YAML parsing, or the filesystem. Infra/adapters map into/from
// these types.
package domain
