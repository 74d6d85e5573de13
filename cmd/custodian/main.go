// Package main is the entry point for the custodian integration service.
package main

func main() {
	Execute()
}
