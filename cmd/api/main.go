package main

import (
	"go.uber.org/fx"

	"github.com/Huulamnguyen/biztime/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
