// ABOUTME: Version constants
// ABOUTME: Product identity reported in logs and --version output
package version

const (
	Product = "Keyclack"
	Version = "0.1.0"
)
