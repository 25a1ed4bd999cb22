// Package design contains the design template aggregate: a saved design
// configuration tied to a provider-side product template, owned by a user,
// and used as the source for storefront product creation.
package design
