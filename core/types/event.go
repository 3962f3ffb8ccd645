package types

// Event represents a typed event emitted during state transitions. Attribute
// values are rendered as strings so that sinks (logs, journals, RPC streams)
// never depend on engine types.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Attr returns the attribute value or an empty string.
func (e *Event) Attr(key string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}
