package main

import "github.com/nrawrx3/unobot/service"

func main() {
	service.RunApp()
}
