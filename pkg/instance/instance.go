package instance

import "os"

// GetID returns an identifier for this server instance. Containerized
// deployments get their pod or container name via HOSTNAME.
func GetID() string {
	if id := os.Getenv("BABYSTEPS_INSTANCE_ID"); id != "" {
		return id
	}
	if host := os.Getenv("HOSTNAME"); host != "" {
		return host
	}
	return "babysteps-0"
}
