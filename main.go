package main

import "github.com/orderhub/order-management/cmd"

func main() {
	cmd.Execute()
}
