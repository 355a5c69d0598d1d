package main

import (
	"wodassist-backend/cmd/wodify-cli/cmd"
)

func main() {
	cmd.Execute()
}
