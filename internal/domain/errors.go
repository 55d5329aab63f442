package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrMissingField = errors.New("campo requerido ausente")
	ErrInvalidType  = errors.New("tipo de campo inválido")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrStorage      = errors.New("almacenamiento ilegible")
)

// Error es un error de dominio con el mensaje que ve el cliente.
// Unwrap devuelve el sentinel, así los handlers pueden usar errors.Is.
type Error struct {
	Kind    error
	Message string
	Cause   error // opcional, error de infraestructura original
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Errorf construye un *Error del tipo indicado.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StorageError envuelve un fallo de lectura/escritura del almacenamiento.
func StorageError(op string, cause error) *Error {
	return &Error{Kind: ErrStorage, Message: fmt.Sprintf("Error: %s: %v", op, cause), Cause: cause}
}

// Message devuelve el texto para el cliente: el mensaje del *Error si lo hay,
// o err.Error() para cualquier otro error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
