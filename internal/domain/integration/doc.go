// Package integration defines the port interfaces and pure logic for the
// cross-platform product synchronization pipeline: the print provider and
// storefront ports, variant derivation, margin pricing, and the media
// matching algorithm. Concrete adapters live in the infrastructure layer.
package integration
