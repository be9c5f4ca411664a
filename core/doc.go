// Package core contains the canonical SDK domain types, contracts, and error
// envelope. Adapters (channel, transport, stores, command bus) must depend on
// this package; core must not depend on any adapter.
package core
