package errx

import (
	"fmt"
	"strings"
)

// Category is the user-facing class of a dispatch failure.
type Category string

const (
	NetworkUnavailable Category = "network_unavailable"
	MissingCredential  Category = "missing_credential"
	ServerReported     Category = "server_reported"
	Unknown            Category = "unknown"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

const (
	NetworkUnavailableMessage = "Cannot reach the legal research service. Start the backend with " +
		"`uvicorn src.api.main:app --reload --port 8000` (or point LEGAL_API_URL at a running instance) and try again."
	MissingCredentialMessage = "The legal research service is running but has no LLM API key configured. " +
		"Add the key to the backend .env file (for example GROQ_API_KEY=your-key-here) and restart the server."
)

// Guidance is what the user sees for a failed request.
type Guidance struct {
	Category Category
	Message  string
}

var networkMarkers = []string{
	"failed to fetch",
	"networkerror",
	"connection refused",
	"no such host",
	"dial tcp",
	"network is unreachable",
	"connection reset",
}

var credentialMarkers = []string{
	"api key",
	"api_key",
	"apikey",
	"not configured",
}

// Classify maps a Failure to guidance. Rule order matters: the network and
// credential heuristics win over any server-reported detail.
func Classify(f *Failure) Guidance {
	if f == nil {
		return Guidance{Category: Unknown, Message: "Request failed."}
	}

	if containsAny(f.RawMessage, networkMarkers) {
		return Guidance{Category: NetworkUnavailable, Message: NetworkUnavailableMessage}
	}

	if containsAny(f.RawMessage, credentialMarkers) || detailContainsAny(f.Detail, credentialMarkers) {
		return Guidance{Category: MissingCredential, Message: MissingCredentialMessage}
	}

	switch d := f.Detail.(type) {
	case StructuredDetail:
		if d.Message != "" {
			return Guidance{Category: ServerReported, Message: d.Message}
		}
	case StringDetail:
		return Guidance{Category: ServerReported, Message: string(d)}
	}

	if f.StatusCode != 0 {
		return Guidance{Category: Unknown, Message: fmt.Sprintf("Request failed with status %d.", f.StatusCode)}
	}
	return Guidance{Category: Unknown, Message: "Request failed: " + f.RawMessage}
}

func detailContainsAny(d Detail, markers []string) bool {
	switch v := d.(type) {
	case StringDetail:
		return containsAny(string(v), markers)
	case StructuredDetail:
		return containsAny(v.Error, markers) || containsAny(v.Message, markers)
	}
	return false
}

func containsAny(s string, markers []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
