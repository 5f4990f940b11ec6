// Waroute receives WhatsApp Cloud API webhooks, routes them to the tenant's
// chatbot and relays the generated reply back to the sender.
package main

// @title Waroute API
// @version 1.0
// @description Multi-tenant WhatsApp Cloud API webhook routing service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
