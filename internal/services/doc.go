// Package services defines the error taxonomy shared across pipeline stages.
package services
