package main

import "github.com/PatrikF1/backend-ProjectPartner/cmd"

func main() {
	cmd.Execute()
}
