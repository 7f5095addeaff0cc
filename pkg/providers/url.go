package providers

import (
	"strings"

	"mercator-hq/switchboard/pkg/credentials"
)

// Default base URLs used when a provider has no BaseURL.
const (
	// ManagedBaseURL serves requests authenticated with a managed login.
	ManagedBaseURL = "https://chatgpt.com/backend-api/codex"

	// PublicBaseURL is the public OpenAI API.
	PublicBaseURL = "https://api.openai.com/v1"
)

// azureMarkers are host fragments that identify Azure-hosted OpenAI
// deployments.
var azureMarkers = []string{
	"openai.azure.",
	"cognitiveservices.azure.",
	"aoai.azure.",
	"azure-api.",
	"azurefd.",
}

// FullURL returns the endpoint URL for the provider's wire protocol.
//
// cred is the credential the request will be sent with (nil for none). It
// only matters when BaseURL is empty: managed logins then go to the managed
// backend, everything else to the public API.
//
// Query parameters are appended as key=value pairs without any escaping;
// values that need encoding must be configured pre-encoded. A non-nil empty
// QueryParams map yields a bare "?".
func (i Info) FullURL(cred credentials.Credential) string {
	base := i.BaseURL
	if base == "" {
		if credentials.IsManaged(cred) {
			base = ManagedBaseURL
		} else {
			base = PublicBaseURL
		}
	}
	return base + i.WireAPI.pathSuffix() + i.queryString()
}

func (i Info) queryString() string {
	if i.QueryParams == nil {
		return ""
	}

	keys := sortedKeys(i.QueryParams)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+i.QueryParams[k])
	}
	return "?" + strings.Join(pairs, "&")
}

// IsAzureResponsesEndpoint reports whether the provider looks like an Azure
// OpenAI deployment of the Responses API. Only Responses providers qualify;
// the check matches a provider named "azure" or a known Azure host fragment
// in the base URL.
func (i Info) IsAzureResponsesEndpoint() bool {
	if i.WireAPI != WireAPIResponses {
		return false
	}
	if strings.EqualFold(i.Name, "azure") {
		return true
	}
	if i.BaseURL == "" {
		return false
	}

	base := strings.ToLower(i.BaseURL)
	for _, marker := range azureMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}
