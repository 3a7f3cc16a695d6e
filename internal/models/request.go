package models

// VisitorContext is what the host knows about the current page view.
type VisitorContext struct {
	Authenticated     bool
	PrivacyPolicyPage bool
}

// RequestEnv carries the per-request facts rendering needs from the host.
type RequestEnv struct {
	SessionID string
	Secure    bool
}

type DismissRequest struct {
	Nonce     string
	SessionID string
	Secure    bool
}

// Asset is a stylesheet or script handed to a render sink.
type Asset struct {
	Handle   string
	Src      string
	Version  string
	InFooter bool
}

// ScriptData is the configuration object exposed to the client script.
type ScriptData struct {
	Version      string `json:"version"`
	Duration     int    `json:"duration"`
	AjaxUrl      string `json:"ajaxUrl"`
	Nonce        string `json:"nonce"`
	IsSecure     bool   `json:"isSecure"`
	CookiePath   string `json:"cookiePath"`
	CookieDomain string `json:"cookieDomain"`
}

// AjaxResponse is the JSON envelope returned by action handlers.
type AjaxResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}
