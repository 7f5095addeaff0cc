// Switchboard inspects and exercises the LLM provider registry.
//
// It resolves provider descriptors from the built-in set and a configuration
// file, shows the URL and headers a request to a provider would carry, and
// reports the state of the stored credential.
//
// Usage:
//
//	# List every known provider
//	switchboard providers list
//
//	# Show the full request for a provider without sending it
//	switchboard providers request openai --config switchboard.yaml
//
//	# Validate a configuration file
//	switchboard config validate --config switchboard.yaml
//
//	# Reload the catalog on every change and serve metrics
//	switchboard watch --config switchboard.yaml
package main

func main() {
	Execute()
}
