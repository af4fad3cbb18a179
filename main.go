// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/scriptrun/cmd/scriptrun"

func main() {
	cmd.Execute()
}
