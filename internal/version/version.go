// Package version provides build and version information.
package version

// Service is the name reported by health checks and the CLI.
const Service = "ls-yantra"

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - HTTP service, readout cache, live websocket feed, engine endpoints
// 0.3.0 - Dhruva-Protha-Chakra, Rama and Digamsa instruments, star catalog
// 0.2.0 - Rasivalaya zodiac dial, seasonal curves, dial TUI
// 0.1.0 - Initial release: Samrat Yantra, solar engine, headless JSON/text output
