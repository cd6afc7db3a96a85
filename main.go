/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package main

import "github.com/tessellated-io/feeband-go/cmd/feeband-go/cmd"

func main() {
	cmd.Execute()
}
