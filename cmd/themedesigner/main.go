// Package main is the entry point for themedesigner.
//
//	@title						Theme Designer Admin API
//	@version					1.0
//	@description				Settings validation and per-record field storage for a theme catalogue.
//
//	@BasePath					/
//
//	@securityDefinitions.basic	BasicAuth
package main

func main() {
	Execute()
}
