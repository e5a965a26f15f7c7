package controller

// Envelope is the wire format of async action responses:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "..."}
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded wraps data in a successful envelope. Nil data becomes an empty object.
func Succeeded(data any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Success: true, Data: data}
}

// Failed wraps err in a failed envelope.
func Failed(err error) Envelope {
	return Envelope{Success: false, Error: err.Error()}
}
