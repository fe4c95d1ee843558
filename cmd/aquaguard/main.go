// aquaguard is a water allocation decision engine with a tamper-evident audit
// chain. The chat/UI collaborator drives it through the process and serve
// commands.
package main

import "github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/cli"

func main() {
	cli.Execute()
}
