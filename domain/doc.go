// Package domain defines the persistent entities of the application.
//
// The entity manager factory is given this package explicitly through
// EntitySet; nothing is discovered at runtime.
package domain
