// Package directory defines the principal directory contract: a read-only
// lookup service that resolves a credential key (login or API key) to a
// Principal record.
//
// # Implementations
//
//   - memory: in-process map-backed directory, used for tests and for
//     static users provisioned from the configuration file - see
//     [github.com/gatehouse-sec/gatehouse/pkg/directory/memory]
//   - gormdir: PostgreSQL-backed directory over GORM - see
//     [github.com/gatehouse-sec/gatehouse/pkg/directory/gormdir]
//
// # Contract
//
// Lookup returns (nil, nil) when no principal matches the key. Callers must
// treat that as "not found", distinct from a lookup error. Directories never
// authenticate; verification of extracted credentials against a principal is
// the job of an authentication strategy.
package directory
