package main

import "workhub_backend/internal/app"

func main() {
	app.Run()
}
