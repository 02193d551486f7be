package main

import (
	"github.com/quickeats/fulfillment/internal/app"
	"github.com/quickeats/fulfillment/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
