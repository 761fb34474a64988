package main

import (
	"github.com/nordkart/checkout-svc/internal/app"
	"github.com/nordkart/checkout-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
