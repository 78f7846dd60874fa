package main

import "habitboard/internal/app"

// @title           Habitboard API
// @version         1.0
// @description     Shared habit and task tracking service: recurring tasks,
// @description     one-directional list sharing and dated proof submissions.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
