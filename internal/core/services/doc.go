// Package services implements the driving port interfaces.
// Each service runs one migration job and orchestrates calls
// to driven ports (adapters).
//
// Services import only domain, ports and the logger. They never
// touch files, databases or HTTP directly.
package services
