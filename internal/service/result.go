package service

// Result is the uniform success/failure carrier every service method
// returns. Resultado=false implies Valor is not meaningful and
// ListaDeErrores is non-empty.
type Result[T any] struct {
	Resultado      bool
	ListaDeErrores []string
	Valor          T
}

func ok[T any](valor T) Result[T] {
	return Result[T]{Resultado: true, Valor: valor}
}

func fail[T any](errores ...string) Result[T] {
	return Result[T]{Resultado: false, ListaDeErrores: errores}
}
