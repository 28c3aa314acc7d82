package main

import "github.com/pinpoint-app/ms-go-accounts/cmd"

func main() {
	cmd.Execute()
}
