package domain

import "errors"

// ErrInvalidInput marca argumentos fuera del contrato de una operación de
// dominio; los call sites pueden distinguirlo con errors.Is.
var ErrInvalidInput = errors.New("entrada inválida")
