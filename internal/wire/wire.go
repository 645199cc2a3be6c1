//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/sevigo/srcfix/internal/app"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}
