package main

import "github.com/gouveiaesilva/dashmilo-api/internal/cli"

func main() {
	cli.Execute()
}
