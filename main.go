package main

import (
	"context"
	"time"

	"github.com/naghmatea/site/internal/app"
)

// @title           Naghma Tea API
// @version         1.0
// @description     Naghma Tea relays custom tea requests from the website to the shop inbox.
// @contact.name    Naghma Tea
// @contact.url     https://naghmateas.com
// @server          http://localhost:8080
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
