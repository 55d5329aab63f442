package dto

// Result cuerpo de respuesta de mutaciones: {success} o {error}.
// También viaja por refreshProducts cuando una mutación en tiempo real falla.
type Result struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResult atajo para {error: msg}.
func ErrorResult(msg string) Result {
	return Result{Error: msg}
}
