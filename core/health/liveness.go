package health

import (
	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/response"
)

// Liveness reports that the process is running. It never checks
// dependencies.
func Liveness(*controller.Context) (any, error) {
	return response.String("ALIVE"), nil
}

// NoContent answers 204 without a body.
func NoContent(*controller.Context) (any, error) {
	return response.NoContent(), nil
}
