package main

import "roomly_backend/internal/app"

func main() {
	app.Run()
}
