// Package session implements the mode-aware session controller: it resolves
// whether the SDK runs embedded under a host page or standalone, bootstraps
// credentials through the matching path, keeps the access token fresh, and
// fronts the credits ledger with the retry policy the lower layers
// deliberately leave out.
package session
