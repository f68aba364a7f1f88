//go:build tinygo

package main

import (
	"gridface/app"
	"gridface/hal"
)

func main() {
	app.Run(hal.New())
}
